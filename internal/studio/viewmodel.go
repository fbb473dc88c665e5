package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/export"
	"github.com/phrazzld/flashforge/internal/genclient"
	"github.com/phrazzld/flashforge/internal/redact"
)

// Generator produces a flashcard set from a request on behalf of a token holder.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest, token string) (*domain.GenerationResult, error)
}

// TokenSource yields the current session's access token, or "" when there is none.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Phase is the generation lifecycle state.
type Phase int

// Phases.
const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseReady
	PhaseError
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseSubmitting:
		return "submitting"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

// Params are the generation parameters chosen by the user.
type Params struct {
	Count int
	Style domain.Style
	Mode  domain.Mode
}

// DefaultParams returns the initial parameters.
func DefaultParams() Params {
	return Params{Count: domain.DefaultCardCount, Style: domain.StyleBalanced, Mode: domain.ModeAuto}
}

// Snapshot is a consistent copy of the view-model state.
type Snapshot struct {
	Phase      Phase
	Notes      string
	Params     Params
	Title      string
	Cards      []domain.Flashcard
	Transcript []domain.TranscriptEntry
	Error      string
}

// Loading reports whether a generation is in flight.
func (s Snapshot) Loading() bool {
	return s.Phase == PhaseSubmitting
}

// CanExport reports whether there is a set to export.
func (s Snapshot) CanExport() bool {
	return len(s.Cards) > 0
}

// ViewModel holds the studio state. It is safe for concurrent use: Submit is
// expected to run off the UI loop while the UI reads Snapshot.
type ViewModel struct {
	generator Generator
	tokens    TokenSource
	logger    *slog.Logger

	mu         sync.Mutex
	notes      string
	params     Params
	phase      Phase
	title      string
	cards      []domain.Flashcard
	transcript []domain.TranscriptEntry
	errMsg     string
	inFlight   bool
	attach     uint64
	closed     bool
}

// New creates an idle ViewModel.
func New(generator Generator, tokens TokenSource, logger *slog.Logger) *ViewModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &ViewModel{
		generator: generator,
		tokens:    tokens,
		logger:    logger.With("component", "studio"),
		params:    DefaultParams(),
		title:     domain.DefaultTitle,
		cards:     []domain.Flashcard{},
	}
}

// SetNotes replaces the notes input.
func (vm *ViewModel) SetNotes(notes string) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.notes = notes
}

// SetParams replaces the parameters, clamping the count.
func (vm *ViewModel) SetParams(p Params) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.params = normalizeParams(p)
}

// Snapshot returns a copy of the current state.
func (vm *ViewModel) Snapshot() Snapshot {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	return Snapshot{
		Phase:      vm.phase,
		Notes:      vm.notes,
		Params:     vm.params,
		Title:      vm.title,
		Cards:      append([]domain.Flashcard(nil), vm.cards...),
		Transcript: append([]domain.TranscriptEntry(nil), vm.transcript...),
		Error:      vm.errMsg,
	}
}

// Submit generates a new set from notes and params. It blocks until the
// generation completes.
//
// Blank notes set the inline error without touching the network or the
// transcript. Otherwise the trimmed notes are appended to the transcript,
// and the outcome replaces the current set (success) or sets the inline
// error (failure), each followed by an assistant transcript entry.
// The user entry is never rolled back. Only one call runs at a time; a
// Reset does not end it, so Submit keeps returning ErrBusy until it
// resolves and its outcome lands on the reset state. After Detach or Close
// the outcome is dropped and ErrStale is returned.
func (vm *ViewModel) Submit(ctx context.Context, notes string, params Params) error {
	vm.mu.Lock()
	if vm.closed {
		vm.mu.Unlock()
		return ErrClosed
	}
	if vm.inFlight {
		vm.mu.Unlock()
		return ErrBusy
	}

	vm.notes = notes
	vm.params = normalizeParams(params)
	vm.errMsg = ""

	clean := strings.TrimSpace(notes)
	if clean == "" {
		vm.phase = PhaseError
		vm.errMsg = MessageEmptyNotes
		vm.mu.Unlock()
		return domain.ErrEmptyNotes
	}

	vm.transcript = append(vm.transcript, domain.TranscriptEntry{Role: domain.RoleUser, Content: clean})
	vm.phase = PhaseSubmitting
	vm.inFlight = true
	attach := vm.attach
	req := domain.GenerationRequest{
		Notes: clean,
		Count: vm.params.Count,
		Style: vm.params.Style,
		Mode:  vm.params.Mode,
	}
	vm.mu.Unlock()

	result, err := vm.generate(ctx, req)

	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.attach != attach {
		vm.logger.Debug("discarding generation result from a detached view")
		return ErrStale
	}
	vm.inFlight = false
	if vm.closed {
		vm.phase = PhaseIdle
		vm.logger.Debug("discarding stale generation result")
		return ErrStale
	}

	if err != nil {
		vm.phase = PhaseError
		vm.errMsg = failureMessage(err)
		vm.transcript = append(vm.transcript, domain.TranscriptEntry{
			Role:    domain.RoleAssistant,
			Content: MessageAssistantFail,
		})
		vm.logger.Warn("generation failed", "error", redact.Error(err))
		return err
	}

	vm.title = result.Title
	vm.cards = result.Flashcards
	if vm.cards == nil {
		vm.cards = []domain.Flashcard{}
	}
	vm.phase = PhaseReady
	vm.transcript = append(vm.transcript, domain.TranscriptEntry{
		Role:    domain.RoleAssistant,
		Content: completionMessage(len(vm.cards), vm.title),
	})
	vm.logger.Info("generation completed", "cards", len(vm.cards))
	return nil
}

func (vm *ViewModel) generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	token := ""
	if vm.tokens != nil {
		t, err := vm.tokens.AccessToken(ctx)
		if err != nil {
			vm.logger.Debug("no access token available", "error", redact.Error(err))
		}
		token = t
	}
	if token == "" {
		return nil, genclient.ErrMissingToken
	}
	return vm.generator.Generate(ctx, req, token)
}

// Reset returns to the initial empty state: notes, cards, transcript and
// error are cleared and the title goes back to the default. The chosen
// parameters are kept. Reset is idempotent. A generation in flight keeps
// running and the view-model stays in PhaseSubmitting until it resolves.
func (vm *ViewModel) Reset() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.notes = ""
	vm.cards = []domain.Flashcard{}
	vm.transcript = nil
	vm.errMsg = ""
	vm.title = domain.DefaultTitle
	vm.phase = PhaseIdle
	if vm.inFlight {
		vm.phase = PhaseSubmitting
	}
}

// Detach is Reset for a view that goes away while the view-model lives on,
// such as after a sign-out. The outcome of a generation in flight is dropped
// and a new Submit is accepted immediately.
func (vm *ViewModel) Detach() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.attach++
	vm.inFlight = false
	vm.notes = ""
	vm.cards = []domain.Flashcard{}
	vm.transcript = nil
	vm.errMsg = ""
	vm.title = domain.DefaultTitle
	vm.phase = PhaseIdle
}

// Close discards any in-flight outcome and rejects further submits.
func (vm *ViewModel) Close() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.closed = true
}

// ExportCSV encodes the current set as CSV.
func (vm *ViewModel) ExportCSV() (export.File, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if len(vm.cards) == 0 {
		return export.File{}, ErrNothingToExport
	}
	return export.NewCSVFile(vm.title, vm.cards), nil
}

// ExportJSON encodes the current set as JSON.
func (vm *ViewModel) ExportJSON() (export.File, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if len(vm.cards) == 0 {
		return export.File{}, ErrNothingToExport
	}
	return export.NewJSONFile(vm.title, vm.cards)
}

func normalizeParams(p Params) Params {
	p.Count = domain.ClampCount(p.Count)
	if p.Style == "" {
		p.Style = domain.StyleBalanced
	}
	if p.Mode == "" {
		p.Mode = domain.ModeAuto
	}
	return p
}

func completionMessage(n int, title string) string {
	return fmt.Sprintf("Done. I created %d flashcards: \"%s\". Tap a card to flip, copy, or export.", n, title)
}

func failureMessage(err error) string {
	var genErr *genclient.GenerationError
	switch {
	case errors.Is(err, genclient.ErrMissingToken), errors.Is(err, genclient.ErrUnauthorized):
		return MessageLoginAgain
	case errors.As(err, &genErr) && genErr.Message != "":
		return genErr.Message
	case errors.Is(err, domain.ErrInvalidStyle), errors.Is(err, domain.ErrInvalidMode), errors.Is(err, domain.ErrValidation):
		return err.Error()
	default:
		return MessageSomethingWrong
	}
}
