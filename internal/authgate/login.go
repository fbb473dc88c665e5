package authgate

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/flashforge/internal/redact"
)

// Authenticator signs a user in with email and password.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
}

// LoginGate backs the login surface: an existing session skips it, and a
// failed sign-in keeps the provider's message for inline display.
type LoginGate struct {
	sessions SessionProvider
	auth     Authenticator
	nav      Navigator
	logger   *slog.Logger

	mu      sync.Mutex
	errMsg  string
	loading bool
}

// NewLoginGate creates a LoginGate.
func NewLoginGate(sessions SessionProvider, auth Authenticator, nav Navigator, logger *slog.Logger) *LoginGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginGate{
		sessions: sessions,
		auth:     auth,
		nav:      nav,
		logger:   logger.With("component", "login_gate"),
	}
}

// Mount replaces the login surface with the dashboard when a session
// already exists. It reports whether it navigated.
func (l *LoginGate) Mount(ctx context.Context) bool {
	session, err := l.sessions.CurrentSession(ctx)
	if err != nil {
		l.logger.Debug("session check failed", "error", redact.Error(err))
		return false
	}
	if session == nil {
		return false
	}
	l.nav.Replace(RouteDashboard)
	return true
}

// SignIn authenticates and navigates to the dashboard. On failure the
// provider's message is kept in Error and the error is returned.
func (l *LoginGate) SignIn(ctx context.Context, email, password string) error {
	l.mu.Lock()
	l.errMsg = ""
	l.loading = true
	l.mu.Unlock()

	_, err := l.auth.SignIn(ctx, strings.TrimSpace(email), password)

	l.mu.Lock()
	l.loading = false
	if err != nil {
		l.errMsg = err.Error()
	}
	l.mu.Unlock()

	if err != nil {
		l.logger.Info("sign in failed", "error", redact.Error(err))
		return err
	}

	l.nav.Push(RouteDashboard)
	return nil
}

// Error returns the last sign-in failure message, or "".
func (l *LoginGate) Error() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errMsg
}

// Loading reports whether a sign-in is in progress.
func (l *LoginGate) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
