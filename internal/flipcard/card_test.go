package flipcard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

func TestCardActivateToggles(t *testing.T) {
	t.Parallel()

	c := NewCard(domain.Flashcard{Question: "Q", Answer: "A"}, nil, nil)
	assert.Equal(t, FaceQuestion, c.Face())
	assert.Equal(t, "Q", c.Text())

	for i := 1; i <= 5; i++ {
		c.Activate()
		if i%2 == 1 {
			assert.Equal(t, "A", c.Text())
			assert.Equal(t, "Answer", c.Face().Label())
		} else {
			assert.Equal(t, "Q", c.Text())
			assert.Equal(t, "Question", c.Face().Label())
		}
	}
}

func TestCardCopy(t *testing.T) {
	t.Parallel()

	cb := &fakeClipboard{}
	c := NewCard(domain.Flashcard{Question: "What is 2+2?", Answer: "4"}, cb, nil)
	c.Activate()

	c.Copy(context.Background())

	require.Len(t, cb.writes, 1)
	assert.Equal(t, "What is 2+2?\n\n4", cb.writes[0])
	assert.Equal(t, FaceAnswer, c.Face(), "copy must not flip")
}

func TestCardCopyFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)
	cb := &fakeClipboard{err: errors.New("no display")}
	c := NewCard(domain.Flashcard{Question: "Q", Answer: "A"}, cb, log)

	assert.NotPanics(t, func() { c.Copy(context.Background()) })
	assert.Equal(t, FaceQuestion, c.Face())
	logger.AssertLogContains(t, buf, "clipboard write failed")
}

func TestCardVisibleTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tags []string
		want []string
	}{
		{"none", nil, nil},
		{"fewer than max", []string{"a", "b"}, []string{"a", "b"}},
		{"truncated", []string{"a", "b", "c", "d", "e"}, []string{"a", "b", "c", "d"}},
		{"duplicates skipped", []string{"a", "a", "b", "a", "c", "b", "d", "e"}, []string{"a", "b", "c", "d"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := NewCard(domain.Flashcard{Question: "Q", Answer: "A", Tags: tc.tags}, nil, nil)
			assert.Equal(t, tc.want, c.VisibleTags())
		})
	}
}

func TestCardBackground(t *testing.T) {
	t.Parallel()

	theme := domain.ProfileTheme{FrontImageURL: "https://img.example.com/front.png"}
	c := NewCard(domain.Flashcard{Question: "Q", Answer: "A"}, nil, nil)

	front := c.Background(theme)
	assert.False(t, front.None())
	assert.Equal(t, Scrim, front.Scrim)
	assert.Equal(t,
		"linear-gradient(to bottom, rgba(0,0,0,0.55), rgba(0,0,0,0.55)), url(https://img.example.com/front.png)",
		front.CSS())

	c.Activate()
	back := c.Background(theme)
	assert.True(t, back.None())
	assert.Empty(t, back.CSS())
}
