package generation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/phrazzld/flashforge/internal/domain"
)

// RetryConfig bounds the exponential backoff of a retrying generator.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

type retryingGenerator struct {
	next   Generator
	cfg    RetryConfig
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

// WithRetry retries transient failures of next with exponential backoff and
// jitter: delay = base * 2^attempt * [0.5, 1.0). Permanent errors and context
// cancellation return immediately.
func WithRetry(next Generator, cfg RetryConfig, logger *slog.Logger) Generator {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	return &retryingGenerator{
		next:   next,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
		jitter: func() float64 { return 0.5 + rand.Float64()*0.5 },
	}
}

func (g *retryingGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		result, err := g.next.Generate(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if IsPermanent(err) || ctx.Err() != nil {
			return domain.GenerationResult{}, err
		}
		if attempt == g.cfg.MaxRetries {
			break
		}

		delay := time.Duration(float64(g.cfg.BaseDelay) * math.Pow(2, float64(attempt)) * g.jitter())
		g.logger.WarnContext(ctx, "generation attempt failed, retrying",
			"attempt", attempt+1,
			"max_attempts", g.cfg.MaxRetries+1,
			"delay", delay,
			"error", err)

		if err := g.sleep(ctx, delay); err != nil {
			return domain.GenerationResult{}, fmt.Errorf("%w: %v", ErrTransientFailure, err)
		}
	}

	return domain.GenerationResult{}, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
		ErrTransientFailure, g.cfg.MaxRetries, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
