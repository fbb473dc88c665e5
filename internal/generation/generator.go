package generation

import (
	"context"

	"github.com/phrazzld/flashforge/internal/domain"
)

// Generator turns study notes into a titled set of flashcards.
type Generator interface {
	// Generate produces flashcards for a normalized, validated request.
	// Implementations return errors from this package's errors.go so callers
	// can map them onto responses.
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	return f(ctx, req)
}

// Finish trims a backend's normalized result to the requested card count and
// rejects results with no usable cards.
func Finish(result domain.GenerationResult, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if len(result.Flashcards) == 0 {
		return domain.GenerationResult{}, ErrNoFlashcards
	}
	if req.Count > 0 && len(result.Flashcards) > req.Count {
		result.Flashcards = result.Flashcards[:req.Count]
	}
	return result, nil
}
