package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/authgate"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/events"
	"github.com/phrazzld/flashforge/internal/redact"
)

// Default configuration values.
const (
	DefaultTimeout = 15 * time.Second

	// DefaultRefreshSkew refreshes access tokens slightly before they expire.
	DefaultRefreshSkew = 30 * time.Second
)

var (
	// ErrNotSignedIn is returned by operations that need a session when there is none.
	ErrNotSignedIn = errors.New("not signed in")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Config holds configuration for the session client.
type Config struct {
	// BaseURL is the service root, e.g. http://localhost:8080 (required).
	BaseURL string

	// Timeout is the per-request timeout (default: 15s). Ignored when HTTPClient is set.
	Timeout time.Duration

	// RefreshSkew is how long before expiry a token counts as expired (default: 30s).
	RefreshSkew time.Duration

	HTTPClient *http.Client
}

// Client talks to the identity and profile endpoints.
type Client struct {
	http        *http.Client
	baseURL     string
	store       Store
	emitter     *events.InMemoryEventEmitter
	logger      *slog.Logger
	refreshSkew time.Duration
	now         func() time.Time

	mu      sync.Mutex
	loaded  bool
	current *Tokens

	// refreshMu serializes refreshes so a rotated refresh token is used once.
	refreshMu sync.Mutex
}

// Compile-time interface checks.
var (
	_ authgate.SessionProvider = (*Client)(nil)
	_ authgate.Authenticator   = (*Client)(nil)
	_ authgate.ProfileReader   = (*Client)(nil)
)

// NewClient creates a Client. A nil emitter gets a private one.
func NewClient(cfg Config, store Store, emitter *events.InMemoryEventEmitter, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("session: base URL is required")
	}
	if store == nil {
		store = &MemoryStore{}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RefreshSkew == 0 {
		cfg.RefreshSkew = DefaultRefreshSkew
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if emitter == nil {
		emitter = events.NewInMemoryEventEmitter(logger)
	}

	return &Client{
		http:        httpClient,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		store:       store,
		emitter:     emitter,
		logger:      logger.With("component", "session_client"),
		refreshSkew: cfg.RefreshSkew,
		now:         time.Now,
	}, nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type authResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (r authResponse) tokens() *Tokens {
	return &Tokens{
		UserID:       r.UserID,
		Email:        r.Email,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.ExpiresAt,
	}
}

type profileResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	FrontImageURL string    `json:"front_bg_url"`
	BackImageURL  string    `json:"back_bg_url"`
}

// SignIn authenticates with email and password and stores the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*authgate.Session, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, email, password string) (*authgate.Session, error) {
	return c.authenticate(ctx, "/api/auth/register", email, password)
}

func (c *Client) authenticate(ctx context.Context, path, email, password string) (*authgate.Session, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, path, "", credentialsRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}

	tokens := resp.tokens()
	if err := c.replace(tokens); err != nil {
		return nil, err
	}

	c.emit(ctx, events.NewSessionEvent(events.SessionSignedIn, tokens.UserID))
	return toSession(tokens), nil
}

// CurrentSession returns the active session, refreshing an expired access
// token first. A failed refresh ends the session and returns nil.
func (c *Client) CurrentSession(ctx context.Context) (*authgate.Session, error) {
	tokens, err := c.validTokens(ctx)
	if err != nil || tokens == nil {
		return nil, err
	}
	return toSession(tokens), nil
}

// AccessToken returns a valid access token, or "" when signed out.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	tokens, err := c.validTokens(ctx)
	if err != nil || tokens == nil {
		return "", err
	}
	return tokens.AccessToken, nil
}

func (c *Client) validTokens(ctx context.Context) (*Tokens, error) {
	c.mu.Lock()
	if !c.loaded {
		loaded, err := c.store.Load()
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.current = loaded
		c.loaded = true
	}
	current := c.current
	c.mu.Unlock()

	if current == nil {
		return nil, nil
	}
	if c.now().Add(c.refreshSkew).Before(current.ExpiresAt) {
		return current, nil
	}
	return c.refresh(ctx, current)
}

func (c *Client) refresh(ctx context.Context, stale *Tokens) (*Tokens, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == nil {
		return nil, nil
	}
	if current != stale && c.now().Add(c.refreshSkew).Before(current.ExpiresAt) {
		// Refreshed by a concurrent caller.
		return current, nil
	}

	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", refreshRequest{RefreshToken: current.RefreshToken}, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden) {
		c.logger.Info("session refresh rejected, signing out", "status", apiErr.StatusCode)
		c.end(ctx, events.SessionExpired)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	tokens := resp.tokens()
	if tokens.Email == "" {
		tokens.Email = current.Email
	}
	if err := c.replace(tokens); err != nil {
		return nil, err
	}

	c.emit(ctx, events.NewSessionEvent(events.SessionRefreshed, tokens.UserID))
	return tokens, nil
}

// Subscribe registers fn for session changes. fn receives nil when the
// session ends.
func (c *Client) Subscribe(fn func(*authgate.Session)) func() {
	return c.emitter.RegisterHandler(events.HandlerFunc(func(_ context.Context, e *events.SessionEvent) error {
		if !e.Active() {
			fn(nil)
			return nil
		}
		c.mu.Lock()
		current := c.current
		c.mu.Unlock()
		fn(toSession(current))
		return nil
	}))
}

// SignOut revokes the access token on the server and forgets the session
// locally. The local session is cleared even when the server call fails.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	if !c.loaded {
		if loaded, err := c.store.Load(); err == nil {
			c.current = loaded
		}
		c.loaded = true
	}
	current := c.current
	c.mu.Unlock()

	var err error
	if current != nil {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", current.AccessToken, nil, nil)
	}

	c.end(ctx, events.SessionSignedOut)
	return err
}

// ReadTheme fetches the user's profile theme. A missing profile yields an
// empty theme.
func (c *Client) ReadTheme(ctx context.Context, userID uuid.UUID) (domain.ProfileTheme, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return domain.ProfileTheme{}, err
	}
	if token == "" {
		return domain.ProfileTheme{}, ErrNotSignedIn
	}

	var resp profileResponse
	err = c.do(ctx, http.MethodGet, "/api/profiles/"+userID.String(), token, nil, &resp)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return domain.ProfileTheme{}, nil
	}
	if err != nil {
		return domain.ProfileTheme{}, err
	}

	return domain.ProfileTheme{FrontImageURL: resp.FrontImageURL, BackImageURL: resp.BackImageURL}, nil
}

// SaveTheme stores the signed-in user's profile theme.
func (c *Client) SaveTheme(ctx context.Context, theme domain.ProfileTheme) error {
	if err := theme.Validate(); err != nil {
		return err
	}
	tokens, err := c.validTokens(ctx)
	if err != nil {
		return err
	}
	if tokens == nil {
		return ErrNotSignedIn
	}

	body := profileResponse{FrontImageURL: theme.FrontImageURL, BackImageURL: theme.BackImageURL}
	return c.do(ctx, http.MethodPut, "/api/profiles/"+tokens.UserID.String(), tokens.AccessToken, body, nil)
}

func (c *Client) replace(tokens *Tokens) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(tokens); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	c.current = tokens
	c.loaded = true
	return nil
}

func (c *Client) end(ctx context.Context, eventType events.SessionEventType) {
	c.mu.Lock()
	c.current = nil
	c.loaded = true
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("failed to clear session file", "error", redact.Error(err))
	}
	c.mu.Unlock()

	c.emit(ctx, events.NewSessionEvent(eventType, uuid.Nil))
}

func (c *Client) emit(ctx context.Context, e *events.SessionEvent) {
	if err := c.emitter.EmitEvent(ctx, e); err != nil {
		c.logger.Warn("session event handler failed", "error", redact.Error(err))
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do performs a JSON request. A nil in sends no body; a nil out discards the response.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		msg := http.StatusText(resp.StatusCode)
		if json.Unmarshal(data, &eb) == nil && strings.TrimSpace(eb.Error) != "" {
			msg = eb.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func toSession(t *Tokens) *authgate.Session {
	if t == nil {
		return nil
	}
	return &authgate.Session{UserID: t.UserID, Email: t.Email, AccessToken: t.AccessToken}
}
