package gemini

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
	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

const temperature float32 = 0.4

// contentGenerator is the subset of *genai.Models the generator calls.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger  *slog.Logger
	models  contentGenerator
	model   string
	prompt  *generation.Prompt
	timeout time.Duration
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini client from cfg.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig, prompt *generation.Prompt) (*Generator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(client.Models, logger, cfg, prompt), nil
}

func newGenerator(models contentGenerator, logger *slog.Logger, cfg config.LLMConfig, prompt *generation.Prompt) *Generator {
	model := cfg.ModelName
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		logger:  logger.With("component", "gemini", "model", model),
		models:  models,
		model:   model,
		prompt:  prompt,
		timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
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
	resp, err := g.models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(generation.SystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(temperature),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    responseSchema,
		})
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed", "error", err, "elapsed", time.Since(start))
		return domain.GenerationResult{}, classifyError(err)
	}

	if err := checkResponse(resp); err != nil {
		g.logger.WarnContext(ctx, "Gemini response rejected", "error", err)
		return domain.GenerationResult{}, err
	}

	payload, ok := domain.DecodePayload([]byte(resp.Text()))
	if !ok {
		return domain.GenerationResult{}, fmt.Errorf("%w: response is not a JSON object", generation.ErrInvalidResponse)
	}

	result, err := generation.Finish(payload.Result(), req)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	g.logger.InfoContext(ctx, "Gemini generation succeeded",
		"cards", len(result.Flashcards),
		"requested", req.Count,
		"elapsed", time.Since(start))
	return result, nil
}

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title": {Type: genai.TypeString},
		"flashcards": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"question": {Type: genai.TypeString},
					"answer":   {Type: genai.TypeString},
					"tags":     {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
				},
				Required: []string{"question", "answer"},
			},
		},
	},
	Required: []string{"title", "flashcards"},
}

func checkResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" && fb.BlockReason != genai.BlockedReasonUnspecified {
		return fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return fmt.Errorf("%w: no candidates", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return nil
}

func classifyError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: %v", generation.ErrInvalidConfig, err)
	case code == http.StatusBadRequest:
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	default:
		// rate limits, server errors, timeouts and network failures
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
}
