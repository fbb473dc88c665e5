package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{"index": 0, "finish_reason": finish, "message": map[string]any{"role": "assistant", "content": content}}},
		"usage":   map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

func newTestGenerator(t *testing.T, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	prompt, err := generation.LoadPrompt("")
	require.NoError(t, err)

	g, err := NewGenerator(slog.New(slog.NewTextHandler(io.Discard, nil)),
		config.LLMConfig{OpenAIAPIKey: "sk-test", RequestTimeoutSeconds: 5}, prompt, srv.URL+"/v1")
	require.NoError(t, err)
	return g
}

func request(t *testing.T) domain.GenerationRequest {
	t.Helper()
	req, err := domain.NewGenerationRequest("Photosynthesis converts light to chemical energy.", 4, domain.StyleBalanced, domain.ModeShortNotes)
	require.NoError(t, err)
	return req
}

func TestGenerate_Success(t *testing.T) {
	var body map[string]any
	g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(completion(
			`{"title":"Photosynthesis","flashcards":[{"question":"Input energy?","answer":"Light","tags":["bio",7]}]}`,
			"stop"))
	})

	got, err := g.Generate(context.Background(), request(t))

	require.NoError(t, err)
	assert.Equal(t, "Photosynthesis", got.Title)
	require.Len(t, got.Flashcards, 1)
	assert.Equal(t, []string{"bio"}, got.Flashcards[0].Tags)

	assert.Equal(t, DefaultModel, body["model"])
	format, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_object", format["type"])
	messages, _ := body["messages"].([]any)
	assert.Len(t, messages, 2)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
	}{
		{name: "content filter", status: 200, body: completion("", "content_filter"), wantErr: generation.ErrContentBlocked},
		{name: "not json", status: 200, body: completion("Here you go", "stop"), wantErr: generation.ErrInvalidResponse},
		{name: "empty cards", status: 200, body: completion(`{"title":"x","flashcards":[]}`, "stop"), wantErr: generation.ErrNoFlashcards},
		{name: "no choices", status: 200, body: map[string]any{"id": "x", "choices": []any{}}, wantErr: generation.ErrInvalidResponse},
		{
			name:    "bad key",
			status:  401,
			body:    map[string]any{"error": map[string]any{"message": "Incorrect API key", "type": "invalid_request_error"}},
			wantErr: generation.ErrInvalidConfig,
		},
		{
			name:    "server error",
			status:  503,
			body:    map[string]any{"error": map[string]any{"message": "overloaded", "type": "server_error"}},
			wantErr: generation.ErrTransientFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			})

			_, err := g.Generate(context.Background(), request(t))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenerator(slog.Default(), config.LLMConfig{}, nil, "")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
