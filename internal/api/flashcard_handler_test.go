package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashcardHandler_Generate(t *testing.T) {
	t.Parallel()

	var got domain.GenerationRequest
	gen := func(_ context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
		got = req
		return domain.GenerationResult{
			Title: "Photosynthesis",
			Flashcards: []domain.Flashcard{
				{Question: "What do plants make?", Answer: "Glucose", Tags: []string{"bio"}},
			},
		}, nil
	}
	srv := newTestServer(t, gen)
	user := srv.register(t, "gen@example.com")

	w := srv.do(t, http.MethodPost, "/api/flashcards", user.AccessToken,
		map[string]interface{}{"notes": "  plants make glucose  ", "count": 100, "style": "exam"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp FlashcardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Photosynthesis", resp.Title)
	require.Len(t, resp.Flashcards, 1)
	assert.Equal(t, "Glucose", resp.Flashcards[0].Answer)

	assert.Equal(t, "plants make glucose", got.Notes)
	assert.Equal(t, domain.MaxCardCount, got.Count)
	assert.Equal(t, domain.StyleExam, got.Style)
	assert.Equal(t, domain.ModeAuto, got.Mode)
}

func TestFlashcardHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		genErr     error
		wantStatus int
		wantError  string
	}{
		{
			name:       "blank notes",
			body:       FlashcardsRequest{Notes: "   "},
			wantStatus: http.StatusBadRequest,
			wantError:  "Please paste some notes to generate flashcards from",
		},
		{
			name:       "unknown style",
			body:       FlashcardsRequest{Notes: "n", Style: "poetic"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid style",
		},
		{
			name:       "unknown mode",
			body:       FlashcardsRequest{Notes: "n", Mode: "cloze"},
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid mode",
		},
		{
			name:       "content blocked",
			body:       FlashcardsRequest{Notes: "n"},
			genErr:     fmt.Errorf("gemini: %w", generation.ErrContentBlocked),
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "The notes were blocked by the model's safety filters",
		},
		{
			name:       "breaker open",
			body:       FlashcardsRequest{Notes: "n"},
			genErr:     generation.ErrUnavailable,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no usable cards",
			body:       FlashcardsRequest{Notes: "n"},
			genErr:     generation.ErrNoFlashcards,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "provider detail is not leaked",
			body:       FlashcardsRequest{Notes: "n"},
			genErr:     fmt.Errorf("%w: upstream said api key sk-secret is invalid", generation.ErrTransientFailure),
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to generate flashcards",
		},
		{
			name:       "oversized body",
			body:       `{"notes":"` + strings.Repeat("a", 2<<20) + `"}`,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := func(context.Context, domain.GenerationRequest) (domain.GenerationResult, error) {
				if tt.genErr != nil {
					return domain.GenerationResult{}, tt.genErr
				}
				return domain.GenerationResult{Title: "T", Flashcards: []domain.Flashcard{{Question: "q", Answer: "a"}}}, nil
			}
			srv := newTestServer(t, gen)
			user := srv.register(t, "err@example.com")

			w := srv.do(t, http.MethodPost, "/api/flashcards", user.AccessToken, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			msg := decodeError(t, w)
			assert.NotContains(t, msg, "sk-secret")
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, msg)
			}
		})
	}
}

func TestFlashcardHandler_RequiresAuth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)
	w := srv.do(t, http.MethodPost, "/api/flashcards", "", FlashcardsRequest{Notes: "n"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t, nil)

	w := srv.do(t, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, HealthResponse{Status: "ok", Generator: "closed"}, resp)
}
