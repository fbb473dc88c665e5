package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashforge/internal/domain"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// GenerateFn overrides every other field when set.
	GenerateFn func(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)

	// Errs are returned by successive calls; a nil entry or a call past the
	// end returns Result.
	Errs []error

	// Result is returned on success. The zero value becomes a one-card set.
	Result domain.GenerationResult

	mu       sync.Mutex
	requests []domain.GenerationRequest
}

// Generate implements generation.Generator.
func (m *MockGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	m.mu.Lock()
	n := len(m.requests)
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFn != nil {
		return m.GenerateFn(ctx, req)
	}
	if n < len(m.Errs) && m.Errs[n] != nil {
		return domain.GenerationResult{}, m.Errs[n]
	}
	if m.Result.Title == "" && m.Result.Flashcards == nil {
		return DefaultResult(), nil
	}
	return m.Result, nil
}

// CallCount returns how many times Generate was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns the requests passed to Generate, in order.
func (m *MockGenerator) Requests() []domain.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.GenerationRequest(nil), m.requests...)
}

// DefaultResult is the set a MockGenerator returns when no Result is given.
func DefaultResult() domain.GenerationResult {
	return domain.GenerationResult{
		Title: "ok",
		Flashcards: []domain.Flashcard{
			{Question: "What is 2 + 2?", Answer: "4"},
		},
	}
}
