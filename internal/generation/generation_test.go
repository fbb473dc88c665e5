package generation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validRequest(t *testing.T) domain.GenerationRequest {
	t.Helper()
	req, err := domain.NewGenerationRequest("Mitochondria produce ATP.", 5, domain.StyleExam, domain.ModeQuestions)
	require.NoError(t, err)
	return req
}

func cards(n int) []domain.Flashcard {
	out := make([]domain.Flashcard, n)
	for i := range out {
		out[i] = domain.Flashcard{Question: "q", Answer: "a"}
	}
	return out
}

func TestFinish(t *testing.T) {
	req := validRequest(t)

	t.Run("trims to count", func(t *testing.T) {
		got, err := Finish(domain.GenerationResult{Title: "Cells", Flashcards: cards(8)}, req)
		require.NoError(t, err)
		assert.Len(t, got.Flashcards, 5)
		assert.Equal(t, "Cells", got.Title)
	})

	t.Run("keeps fewer cards", func(t *testing.T) {
		got, err := Finish(domain.GenerationResult{Title: "Cells", Flashcards: cards(2)}, req)
		require.NoError(t, err)
		assert.Len(t, got.Flashcards, 2)
	})

	t.Run("no cards", func(t *testing.T) {
		_, err := Finish(domain.EmptyResult(), req)
		assert.ErrorIs(t, err, ErrNoFlashcards)
	})
}

func TestPrompt_Render(t *testing.T) {
	p, err := LoadPrompt("")
	require.NoError(t, err)

	out, err := p.Render(validRequest(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Create 5 flashcards")
	assert.Contains(t, out, "Style: Exam-focused.")
	assert.Contains(t, out, "Card kind: Questions.")
	assert.Contains(t, out, "Mitochondria produce ATP.")
	assert.Contains(t, out, `"flashcards"`)
}

func TestLoadPrompt_FromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.tmpl")
	require.NoError(t, os.WriteFile(good, []byte("{{.Count}}|{{.Mode}}|{{.Notes}}"), 0o600))
	p, err := LoadPrompt(good)
	require.NoError(t, err)
	out, err := p.Render(validRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "5|questions|Mitochondria produce ATP.", out)

	bad := filepath.Join(dir, "bad.tmpl")
	require.NoError(t, os.WriteFile(bad, []byte("{{.Count"), 0o600))
	_, err = LoadPrompt(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadPrompt(filepath.Join(dir, "missing.tmpl"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, IsPermanent(ErrContentBlocked))
	assert.True(t, IsPermanent(ErrInvalidResponse))
	assert.True(t, IsPermanent(ErrNoFlashcards))
	assert.False(t, IsPermanent(ErrTransientFailure))
	assert.False(t, IsPermanent(errors.New("timeout")))
}

func newTestRetry(next Generator, maxRetries int) (*retryingGenerator, *[]time.Duration) {
	var delays []time.Duration
	g := WithRetry(next, RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Second}, discardLogger()).(*retryingGenerator)
	g.jitter = func() float64 { return 1 }
	g.sleep = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	return g, &delays
}

func TestWithRetry(t *testing.T) {
	transient := errors.New("503 from backend")
	ctx := context.Background()

	t.Run("recovers after transient failures", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{transient, transient}}
		g, delays := newTestRetry(next, 2)

		got, err := g.Generate(ctx, validRequest(t))

		require.NoError(t, err)
		assert.Equal(t, "ok", got.Title)
		assert.Equal(t, 3, next.CallCount())
		assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{transient, transient, transient}}
		g, _ := newTestRetry(next, 2)

		_, err := g.Generate(ctx, validRequest(t))

		assert.ErrorIs(t, err, ErrTransientFailure)
		assert.ErrorContains(t, err, "503 from backend")
		assert.Equal(t, 3, next.CallCount())
	})

	t.Run("permanent errors are not retried", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{ErrContentBlocked}}
		g, delays := newTestRetry(next, 3)

		_, err := g.Generate(ctx, validRequest(t))

		assert.ErrorIs(t, err, ErrContentBlocked)
		assert.Equal(t, 1, next.CallCount())
		assert.Empty(t, *delays)
	})

	t.Run("cancelled during backoff", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{transient, transient}}
		g, _ := newTestRetry(next, 2)
		g.sleep = func(context.Context, time.Duration) error { return context.Canceled }

		_, err := g.Generate(ctx, validRequest(t))

		assert.ErrorIs(t, err, ErrTransientFailure)
		assert.Equal(t, 1, next.CallCount())
	})
}

func TestBreakerGenerator(t *testing.T) {
	ctx := context.Background()
	failing := errors.New("backend down")

	t.Run("opens after consecutive failures", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{failing, failing, failing, failing}}
		b := NewBreakerGenerator(next, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, discardLogger())

		_, err := b.Generate(ctx, validRequest(t))
		assert.ErrorIs(t, err, failing)
		_, err = b.Generate(ctx, validRequest(t))
		assert.ErrorIs(t, err, failing)
		assert.Equal(t, "open", b.State())

		_, err = b.Generate(ctx, validRequest(t))
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Equal(t, 2, next.CallCount())
	})

	t.Run("permanent errors do not trip", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{ErrContentBlocked, ErrContentBlocked, ErrContentBlocked}}
		b := NewBreakerGenerator(next, BreakerConfig{MaxFailures: 2, OpenTimeout: time.Minute}, discardLogger())

		for i := 0; i < 3; i++ {
			_, err := b.Generate(ctx, validRequest(t))
			assert.ErrorIs(t, err, ErrContentBlocked)
		}
		assert.Equal(t, "closed", b.State())
	})

	t.Run("half-open trial closes again", func(t *testing.T) {
		next := &mocks.MockGenerator{Errs: []error{failing}}
		b := NewBreakerGenerator(next, BreakerConfig{MaxFailures: 1, OpenTimeout: 20 * time.Millisecond}, discardLogger())

		_, err := b.Generate(ctx, validRequest(t))
		require.ErrorIs(t, err, failing)
		assert.Equal(t, "open", b.State())

		time.Sleep(40 * time.Millisecond)

		got, err := b.Generate(ctx, validRequest(t))
		require.NoError(t, err)
		assert.Equal(t, "ok", got.Title)
		assert.Equal(t, "closed", b.State())
	})

	t.Run("passes results through", func(t *testing.T) {
		b := NewBreakerGenerator(GeneratorFunc(func(context.Context, domain.GenerationRequest) (domain.GenerationResult, error) {
			return domain.GenerationResult{Title: "Deck", Flashcards: cards(3)}, nil
		}), BreakerConfig{OpenTimeout: time.Second}, discardLogger())

		got, err := b.Generate(ctx, validRequest(t))
		require.NoError(t, err)
		assert.Equal(t, "Deck", got.Title)
		assert.Len(t, got.Flashcards, 3)
	})
}
