// Package openai implements generation.Generator on the OpenAI chat
// completions API using JSON-object response format.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/generation"
	goopenai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = goopenai.GPT4oMini

// Generator implements generation.Generator using OpenAI chat completions.
type Generator struct {
	logger  *slog.Logger
	client  *goopenai.Client
	model   string
	prompt  *generation.Prompt
	timeout time.Duration
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates an OpenAI-backed generator. baseURL overrides the API
// endpoint and is empty in production.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig, prompt *generation.Prompt, baseURL string) (*Generator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientCfg := goopenai.DefaultConfig(cfg.OpenAIAPIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		logger:  logger.With("component", "openai", "model", model),
		client:  goopenai.NewClientWithConfig(clientCfg),
		model:   model,
		prompt:  prompt,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}, nil
}

// Generate implements generation.Generator.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	text, err := g.prompt.Render(req)
	if err != nil {
		return domain.GenerationResult{}, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: generation.SystemInstruction},
			{Role: goopenai.ChatMessageRoleUser, Content: text},
		},
		Temperature: 0.4,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "OpenAI API call failed", "error", err, "elapsed", time.Since(start))
		return domain.GenerationResult{}, classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return domain.GenerationResult{}, fmt.Errorf("%w: no choices", generation.ErrInvalidResponse)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == goopenai.FinishReasonContentFilter {
		return domain.GenerationResult{}, fmt.Errorf("%w: content filtered", generation.ErrContentBlocked)
	}
	if choice.Message.Refusal != "" {
		return domain.GenerationResult{}, fmt.Errorf("%w: %s", generation.ErrContentBlocked, choice.Message.Refusal)
	}

	payload, ok := domain.DecodePayload([]byte(choice.Message.Content))
	if !ok {
		return domain.GenerationResult{}, fmt.Errorf("%w: response is not a JSON object", generation.ErrInvalidResponse)
	}

	result, err := generation.Finish(payload.Result(), req)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	g.logger.InfoContext(ctx, "OpenAI generation succeeded",
		"cards", len(result.Flashcards),
		"requested", req.Count,
		"total_tokens", resp.Usage.TotalTokens,
		"elapsed", time.Since(start))
	return result, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
		case http.StatusBadRequest:
			return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}
