package flipcard

import (
	"context"
	"log/slog"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/redact"
)

// Face is the side of a card currently shown.
type Face int

// Card faces.
const (
	FaceQuestion Face = iota
	FaceAnswer
)

// Label names the face.
func (f Face) Label() string {
	if f == FaceAnswer {
		return "Answer"
	}
	return "Question"
}

// MaxVisibleTags is how many distinct tags a card displays.
const MaxVisibleTags = 4

// Scrim is the dark overlay drawn over a face's background image.
const Scrim = "linear-gradient(to bottom, rgba(0,0,0,0.55), rgba(0,0,0,0.55))"

// Background is a face's backdrop. The zero value means no image.
type Background struct {
	ImageURL string
	Scrim    string
}

// None reports whether there is no background image.
func (b Background) None() bool {
	return b.ImageURL == ""
}

// CSS renders the background as a background-image value, or "" for none.
func (b Background) CSS() string {
	if b.None() {
		return ""
	}
	return b.Scrim + ", url(" + b.ImageURL + ")"
}

// Card is one rendered flashcard. It starts on the question face.
type Card struct {
	card          domain.Flashcard
	showingAnswer bool
	clipboard     Clipboard
	logger        *slog.Logger
}

// NewCard creates a question-facing Card.
func NewCard(card domain.Flashcard, cb Clipboard, logger *slog.Logger) *Card {
	if logger == nil {
		logger = slog.Default()
	}
	return &Card{card: card, clipboard: cb, logger: logger}
}

// Flashcard returns the underlying card content.
func (c *Card) Flashcard() domain.Flashcard {
	return c.card
}

// Activate flips the card.
func (c *Card) Activate() {
	c.showingAnswer = !c.showingAnswer
}

// Face returns the face currently shown.
func (c *Card) Face() Face {
	if c.showingAnswer {
		return FaceAnswer
	}
	return FaceQuestion
}

// Text returns the text of the face currently shown.
func (c *Card) Text() string {
	if c.showingAnswer {
		return c.card.Answer
	}
	return c.card.Question
}

// Copy writes "question\n\nanswer" to the clipboard. It never flips the card,
// and failures are logged at debug level and otherwise ignored.
func (c *Card) Copy(ctx context.Context) {
	if c.clipboard == nil {
		return
	}
	if err := c.clipboard.WriteText(ctx, c.card.ClipboardText()); err != nil {
		c.logger.Debug("clipboard write failed", "error", redact.Error(err))
	}
}

// VisibleTags returns up to MaxVisibleTags distinct tags in their original order.
func (c *Card) VisibleTags() []string {
	if len(c.card.Tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(c.card.Tags))
	out := make([]string, 0, MaxVisibleTags)
	for _, tag := range c.card.Tags {
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
		if len(out) == MaxVisibleTags {
			break
		}
	}
	return out
}

// Background returns the backdrop for the face currently shown.
func (c *Card) Background(theme domain.ProfileTheme) Background {
	url := theme.FrontImageURL
	if c.showingAnswer {
		url = theme.BackImageURL
	}
	if url == "" {
		return Background{}
	}
	return Background{ImageURL: url, Scrim: Scrim}
}
