package flipcard

import (
	"context"
	"log/slog"

	"github.com/phrazzld/flashforge/internal/domain"
)

// Deck is the ordered list of rendered cards for the current set.
// Card state is keyed by position.
type Deck struct {
	cards     []*Card
	clipboard Clipboard
	logger    *slog.Logger
}

// NewDeck creates an empty Deck.
func NewDeck(cb Clipboard, logger *slog.Logger) *Deck {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deck{clipboard: cb, logger: logger.With("component", "flipcard")}
}

// Load replaces the deck's content. A position whose card is unchanged keeps
// its face; any other position starts on the question.
func (d *Deck) Load(cards []domain.Flashcard) {
	next := make([]*Card, len(cards))
	for i, fc := range cards {
		if i < len(d.cards) && d.cards[i].card.Equal(fc) {
			next[i] = d.cards[i]
			continue
		}
		next[i] = NewCard(fc, d.clipboard, d.logger)
	}
	d.cards = next
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Card returns the card at i, or nil when out of range.
func (d *Deck) Card(i int) *Card {
	if i < 0 || i >= len(d.cards) {
		return nil
	}
	return d.cards[i]
}

// Cards returns the rendered cards in order.
func (d *Deck) Cards() []*Card {
	return d.cards
}

// Activate flips the card at i. Out-of-range indexes are ignored.
func (d *Deck) Activate(i int) {
	if c := d.Card(i); c != nil {
		c.Activate()
	}
}

// Copy copies the card at i. Out-of-range indexes are ignored.
func (d *Deck) Copy(ctx context.Context, i int) {
	if c := d.Card(i); c != nil {
		c.Copy(ctx)
	}
}
