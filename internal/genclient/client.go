// Package genclient calls the flashcard generation endpoint on behalf of an
// authenticated user and normalizes whatever comes back.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/redact"
)

// Default configuration values.
const (
	DefaultPath    = "/api/flashcards"
	DefaultTimeout = 90 * time.Second

	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Config holds configuration for the generation client.
type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080 (required).
	BaseURL string

	// Path is appended to BaseURL (default: /api/flashcards).
	Path string

	// Timeout bounds a single call (default: 90s). Ignored when HTTPClient is set.
	Timeout time.Duration

	// HTTPClient overrides the client used for requests.
	HTTPClient *http.Client
}

// Client sends generation requests. It never retries and never caches.
type Client struct {
	client   *http.Client
	endpoint string
	logger   *slog.Logger
}

// New creates a Client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("genclient: base URL is required")
	}
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		client:   httpClient,
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + cfg.Path,
		logger:   logger.With("component", "genclient"),
	}, nil
}

// Endpoint returns the URL requests are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate posts req with the bearer token and returns the normalized result.
//
// An empty token yields ErrMissingToken and blank notes a domain validation
// error, both without touching the network. Any other failure is a
// *GenerationError. A successful response is decoded leniently: missing or
// malformed fields fall back to defaults instead of failing.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest, token string) (*domain.GenerationResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationError{Message: MessageFailedGenerate, Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Warn("generation request failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return nil, &GenerationError{Message: MessageFailedGenerate, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &GenerationError{
			StatusCode: resp.StatusCode,
			Message:    MessageFailedGenerate,
			Err:        fmt.Errorf("read response: %w", err),
		}
	}

	payload, decoded := domain.DecodePayload(data)
	success := resp.StatusCode >= 200 && resp.StatusCode < 300

	log := c.logger.With(
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if success && !decoded && !json.Valid(data) {
		log.Warn("generation endpoint returned a body that is not JSON")
		return nil, &GenerationError{StatusCode: resp.StatusCode, Message: MessageFailedGenerate}
	}

	if !success || (decoded && payload.ErrorMessage() != "") {
		msg := ""
		if decoded {
			msg = payload.ErrorMessage()
		}
		if msg == "" {
			msg = MessageFailedGenerate
		}
		log.Warn("generation endpoint returned an error", "message", redact.String(msg))
		return nil, &GenerationError{StatusCode: resp.StatusCode, Message: msg}
	}

	result := domain.EmptyResult()
	if decoded {
		result = payload.Result()
	} else {
		log.Debug("generation response was not a JSON object, using defaults")
	}

	log.Debug("generation completed", "cards", len(result.Flashcards))
	return &result, nil
}
