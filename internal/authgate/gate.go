package authgate

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/redact"
)

// Session is an authenticated identity.
type Session struct {
	UserID      uuid.UUID
	Email       string
	AccessToken string
}

// SessionProvider is the identity collaborator.
type SessionProvider interface {
	// CurrentSession returns the active session, or nil when signed out.
	CurrentSession(ctx context.Context) (*Session, error)
	// Subscribe registers fn for session changes; nil means signed out.
	Subscribe(fn func(*Session)) (unsubscribe func())
	SignOut(ctx context.Context) error
}

// ProfileReader loads a user's card theme. A missing profile is not an error.
type ProfileReader interface {
	ReadTheme(ctx context.Context, userID uuid.UUID) (domain.ProfileTheme, error)
}

// Route is a navigation target.
type Route string

// Routes.
const (
	RouteLanding   Route = "/"
	RouteLogin     Route = "/login"
	RouteDashboard Route = "/dashboard"
)

// Navigator moves between surfaces. Replace drops the current surface from
// history; Push keeps it.
type Navigator interface {
	Replace(route Route)
	Push(route Route)
}

// State is the gate's lifecycle state.
type State int

// States.
const (
	StateChecking State = iota
	StateRedirected
	StateReady
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRedirected:
		return "redirected"
	case StateReady:
		return "ready"
	default:
		return "checking"
	}
}

// Effect names a mount step.
type Effect string

// Mount effects in execution order.
const (
	EffectSessionCheck      Effect = "session-check"
	EffectProfileFetch      Effect = "profile-fetch"
	EffectListenerSubscribe Effect = "listener-subscribe"
)

// ErrAlreadyMounted is returned by a second Mount.
var ErrAlreadyMounted = errors.New("gate already mounted")

// Gate protects the dashboard surface.
type Gate struct {
	sessions SessionProvider
	profiles ProfileReader
	nav      Navigator
	logger   *slog.Logger

	mu          sync.Mutex
	state       State
	session     *Session
	theme       domain.ProfileTheme
	ran         []Effect
	mounted     bool
	closed      bool
	unsubscribe func()
}

// NewGate creates a Gate in the checking state.
func NewGate(sessions SessionProvider, profiles ProfileReader, nav Navigator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		sessions: sessions,
		profiles: profiles,
		nav:      nav,
		logger:   logger.With("component", "auth_gate"),
	}
}

// Mount runs the session-check, profile-fetch and listener-subscribe effects.
// Once subscribed it checks the session again, so an expiry during the fetch
// still redirects. It returns the resulting state.
func (g *Gate) Mount(ctx context.Context) (State, error) {
	g.mu.Lock()
	if g.mounted {
		state := g.state
		g.mu.Unlock()
		return state, ErrAlreadyMounted
	}
	g.mounted = true
	g.ran = append(g.ran, EffectSessionCheck)
	g.mu.Unlock()

	session, err := g.sessions.CurrentSession(ctx)
	if err != nil {
		g.logger.Warn("session check failed", "error", redact.Error(err))
		session = nil
	}
	if session == nil {
		g.redirect()
		return StateRedirected, nil
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return StateChecking, nil
	}
	g.session = session
	g.ran = append(g.ran, EffectProfileFetch)
	g.mu.Unlock()

	theme := g.fetchTheme(ctx, session.UserID)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return StateChecking, nil
	}
	g.theme = theme
	g.state = StateReady
	g.ran = append(g.ran, EffectListenerSubscribe)
	g.mu.Unlock()

	unsubscribe := g.sessions.Subscribe(g.onSessionChange)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		unsubscribe()
		return StateChecking, nil
	}
	g.unsubscribe = unsubscribe
	g.mu.Unlock()

	// A session that ended during the profile fetch was never broadcast to
	// the listener.
	current, err := g.sessions.CurrentSession(ctx)
	if err != nil {
		g.logger.Warn("session re-check failed", "error", redact.Error(err))
		current = nil
	}
	if current == nil {
		g.onSessionChange(nil)
	}

	return g.State(), nil
}

func (g *Gate) fetchTheme(ctx context.Context, userID uuid.UUID) domain.ProfileTheme {
	if g.profiles == nil {
		return domain.ProfileTheme{}
	}
	theme, err := g.profiles.ReadTheme(ctx, userID)
	if err != nil {
		g.logger.Warn("profile fetch failed, using empty theme", "error", redact.Error(err))
		return domain.ProfileTheme{}
	}
	return theme
}

// onSessionChange may run on any goroutine.
func (g *Gate) onSessionChange(s *Session) {
	if s != nil {
		return
	}

	g.mu.Lock()
	if g.closed || g.state != StateReady {
		g.mu.Unlock()
		return
	}
	g.state = StateRedirected
	g.session = nil
	g.mu.Unlock()

	g.logger.Info("session ended, redirecting to login")
	g.nav.Replace(RouteLogin)
}

func (g *Gate) redirect() {
	g.mu.Lock()
	g.state = StateRedirected
	g.mu.Unlock()
	g.logger.Debug("no session, redirecting to login")
	g.nav.Replace(RouteLogin)
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the confirmed session, or nil.
func (g *Gate) Session() *Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Theme returns the fetched card theme. It is empty until Ready.
func (g *Gate) Theme() domain.ProfileTheme {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.theme
}

// Effects returns the effects Mount has run so far, in order.
func (g *Gate) Effects() []Effect {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Effect(nil), g.ran...)
}

// Close unsubscribes from session changes. It is safe to call more than once.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.closed = true
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// SignOut signs out through the provider, ignoring its error, then navigates
// to the landing route.
func (g *Gate) SignOut(ctx context.Context) {
	if err := g.sessions.SignOut(ctx); err != nil {
		g.logger.Warn("sign out failed", "error", redact.Error(err))
	}
	g.nav.Push(RouteLanding)
}
