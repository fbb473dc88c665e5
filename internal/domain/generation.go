package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Style controls the tone of generated cards.
type Style string

// Supported generation styles.
const (
	StyleBalanced Style = "balanced"
	StyleExam     Style = "exam"
	StyleSimple   Style = "simple"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleBalanced, StyleExam, StyleSimple}

// Label returns the human-readable name of the style.
func (s Style) Label() string {
	switch s {
	case StyleExam:
		return "Exam-focused"
	case StyleSimple:
		return "Simple"
	default:
		return "Balanced"
	}
}

// Mode controls which kind of cards the generator should favor.
type Mode string

// Supported generation modes.
const (
	ModeAuto       Mode = "auto"
	ModeQuestions  Mode = "questions"
	ModeShortNotes Mode = "short_notes"
)

// Modes lists every supported mode in display order.
var Modes = []Mode{ModeAuto, ModeShortNotes, ModeQuestions}

// Label returns the human-readable name of the mode.
func (m Mode) Label() string {
	switch m {
	case ModeQuestions:
		return "Questions"
	case ModeShortNotes:
		return "Short notes"
	default:
		return "Auto"
	}
}

// Card count bounds for a single generation.
const (
	MinCardCount     = 3
	MaxCardCount     = 50
	DefaultCardCount = 12
)

// DefaultTitle is used whenever a generation result carries no usable title.
const DefaultTitle = "Flashcards"

// GenerationRequest is the payload sent to the generation endpoint.
type GenerationRequest struct {
	Notes string `json:"notes" validate:"required"`
	Count int    `json:"count" validate:"gte=3,lte=50"`
	Style Style  `json:"style" validate:"oneof=balanced exam simple"`
	Mode  Mode   `json:"mode"  validate:"oneof=auto questions short_notes"`
}

var validate = validator.New()

// NewGenerationRequest builds a normalized and validated request.
func NewGenerationRequest(notes string, count int, style Style, mode Mode) (GenerationRequest, error) {
	req := GenerationRequest{Notes: notes, Count: count, Style: style, Mode: mode}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}
	return req, nil
}

// Normalize trims the notes, clamps the count into [MinCardCount, MaxCardCount]
// and fills in the default style and mode when they are empty.
// A zero count is treated as "not chosen" and becomes DefaultCardCount.
func (r *GenerationRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
	r.Count = ClampCount(r.Count)
	if r.Style == "" {
		r.Style = StyleBalanced
	}
	if r.Mode == "" {
		r.Mode = ModeAuto
	}
}

// Validate checks the request against its constraints and maps failures onto
// the domain's sentinel errors.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Notes) == "" {
		return ErrEmptyNotes
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	switch verrs[0].Field() {
	case "Style":
		return fmt.Errorf("%w: %q", ErrInvalidStyle, r.Style)
	case "Mode":
		return fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	default:
		return fmt.Errorf("%w: %s failed on %s", ErrValidation, verrs[0].Field(), verrs[0].Tag())
	}
}

// ClampCount maps any requested count into the supported range.
func ClampCount(n int) int {
	switch {
	case n == 0:
		return DefaultCardCount
	case n < MinCardCount:
		return MinCardCount
	case n > MaxCardCount:
		return MaxCardCount
	default:
		return n
	}
}

// GenerationResult is a titled, ordered set of flashcards.
type GenerationResult struct {
	Title      string      `json:"title"`
	Flashcards []Flashcard `json:"flashcards"`
}

// EmptyResult returns the result shown before anything has been generated.
func EmptyResult() GenerationResult {
	return GenerationResult{Title: DefaultTitle, Flashcards: []Flashcard{}}
}
