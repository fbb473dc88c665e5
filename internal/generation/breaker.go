package generation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around a generator.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration
}

// BreakerGenerator stops calling its backend after repeated failures and
// fails fast with ErrUnavailable until the open timeout passes.
// Content blocks and malformed output are the user's notes' fault, not the
// backend's, so they do not count toward tripping.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps next in a circuit breaker.
func NewBreakerGenerator(next Generator, cfg BreakerConfig, logger *slog.Logger) *BreakerGenerator {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Name == "" {
		cfg.Name = "generation"
	}
	log := logger.With("component", "breaker", "breaker", cfg.Name)

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsPermanent(err) || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerGenerator{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Generate implements Generator.
func (b *BreakerGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Generate(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.GenerationResult{}, ErrUnavailable
	}
	if err != nil {
		return domain.GenerationResult{}, err
	}
	return out.(domain.GenerationResult), nil
}

// State returns the breaker state name: "closed", "half-open" or "open".
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}
