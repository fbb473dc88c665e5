package domain

import "strings"

// Flashcard is a single question/answer pair with optional tags.
// Flashcards are produced only by normalizing a generation payload and are
// treated as immutable afterwards.
type Flashcard struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`
}

// Validate checks that both faces of the card carry text.
func (c Flashcard) Validate() error {
	if strings.TrimSpace(c.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(c.Answer) == "" {
		return ErrEmptyAnswer
	}
	return nil
}

// Equal reports whether two cards have identical content, tags included.
func (c Flashcard) Equal(other Flashcard) bool {
	if c.Question != other.Question || c.Answer != other.Answer {
		return false
	}
	if len(c.Tags) != len(other.Tags) {
		return false
	}
	for i := range c.Tags {
		if c.Tags[i] != other.Tags[i] {
			return false
		}
	}
	return true
}

// ClipboardText is the text copied for a card: question, blank line, answer.
func (c Flashcard) ClipboardText() string {
	return c.Question + "\n\n" + c.Answer
}
