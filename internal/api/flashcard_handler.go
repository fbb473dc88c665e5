package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/phrazzld/flashforge/internal/api/shared"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/logger"
)

// FlashcardHandler turns notes into flashcards.
type FlashcardHandler struct {
	generator generation.Generator
	timeout   time.Duration
}

// NewFlashcardHandler creates a FlashcardHandler. A positive timeout bounds
// each generation.
func NewFlashcardHandler(generator generation.Generator, timeout time.Duration) *FlashcardHandler {
	return &FlashcardHandler{generator: generator, timeout: timeout}
}

// Generate handles POST /api/flashcards.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body FlashcardsRequest
	if err := shared.DecodeJSON(w, r, &body); err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Notes are too long", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	req, err := domain.NewGenerationRequest(body.Notes, body.Count, body.Style, body.Mode)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	log := logger.FromContext(ctx)
	start := time.Now()
	result, err := h.generator.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && r.Context().Err() == nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusGatewayTimeout,
				"Flashcard generation took too long. Try shorter notes.", err)
			return
		}
		handleAPIError(w, r, err)
		return
	}

	log.Info("flashcards generated",
		"count", len(result.Flashcards),
		"requested", req.Count,
		"style", req.Style,
		"mode", req.Mode,
		"duration", time.Since(start))

	shared.RespondWithJSON(w, r, http.StatusOK, FlashcardsResponse{
		Title:      result.Title,
		Flashcards: result.Flashcards,
	})
}
