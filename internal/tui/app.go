package tui

import (
	"context"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/flashforge/internal/authgate"
)

// App is the root Bubbletea model. It owns the surfaces and switches between
// them on navigations queued by the gates.
type App struct {
	ctx    context.Context
	deps   *Deps
	nav    *Navigator
	styles *Styles
	keys   *KeyMap
	logger *slog.Logger

	route     authgate.Route
	login     *LoginView
	dashboard *DashboardView
	gate      *authgate.Gate
	ready     bool

	width    int
	quitting bool
}

// NewApp creates the root model. The navigator must be the one the gates
// were given.
func NewApp(deps *Deps, nav *Navigator) (*App, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}
	if nav == nil {
		nav = NewNavigator()
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	styles := DefaultStyles()
	keys := DefaultKeyMap()

	signIn := authgate.NewLoginGate(deps.Sessions, deps.Auth, nav, logger)
	var register *authgate.LoginGate
	if deps.Registrar != nil {
		register = authgate.NewLoginGate(deps.Sessions, deps.Registrar, nav, logger)
	}

	return &App{
		ctx:       context.Background(),
		deps:      deps,
		nav:       nav,
		styles:    styles,
		keys:      keys,
		logger:    logger.With("component", "tui"),
		route:     authgate.RouteLogin,
		login:     NewLoginView(styles, keys, signIn, register),
		dashboard: NewDashboardView(styles, keys, deps),
		width:     80,
	}, nil
}

// WithContext sets the context used for commands.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Route returns the surface currently shown.
func (a *App) Route() authgate.Route {
	return a.route
}

// Init starts on the login surface, which skips ahead when a session exists.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.login.Init(), a.login.Mount(a.ctx), a.nav.Next())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.dashboard.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, a.quit()
		}
		if key.Matches(msg, a.keys.Quit) && a.quitAllowed() {
			return a, a.quit()
		}

	case navigateMsg:
		return a, tea.Batch(a.navigate(msg), a.nav.Next())

	case gateMountedMsg:
		if msg.gate != a.gate {
			return a, nil
		}
		if msg.state != authgate.StateReady {
			return a, nil
		}
		a.ready = true
		a.dashboard.Attach(msg.gate)
		return a, a.dashboard.Init()

	case signedOutMsg:
		a.deps.Studio.Detach()
		a.dashboard = NewDashboardView(a.styles, a.keys, a.deps)
		a.dashboard.SetWidth(a.width)
		return a, nil

	case loginMountedMsg:
		return a, nil

	case signInDoneMsg:
		// may arrive after the gate already navigated away
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(a.ctx, msg)
		return a, cmd

	case generationDoneMsg, exportDoneMsg, themeSavedMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.Update(a.ctx, msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.route {
	case authgate.RouteLogin:
		a.login, cmd = a.login.Update(a.ctx, msg)
	case authgate.RouteDashboard:
		if a.ready {
			a.dashboard, cmd = a.dashboard.Update(a.ctx, msg)
		}
	case authgate.RouteLanding:
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, a.keys.Submit) {
			a.route = authgate.RouteLogin
			cmd = a.login.Init()
		}
	}
	return a, cmd
}

func (a *App) quitAllowed() bool {
	switch a.route {
	case authgate.RouteLanding:
		return true
	case authgate.RouteDashboard:
		return a.ready && !a.dashboard.Editing()
	}
	return false
}

func (a *App) navigate(msg navigateMsg) tea.Cmd {
	a.logger.Debug("navigate", "route", string(msg.route), "replace", msg.replace)

	switch msg.route {
	case authgate.RouteDashboard:
		if a.route == authgate.RouteDashboard && a.gate != nil {
			return nil
		}
		a.route = authgate.RouteDashboard
		return a.mountGate()
	case authgate.RouteLogin:
		a.closeGate()
		a.route = authgate.RouteLogin
		return a.login.Init()
	default:
		a.closeGate()
		a.route = authgate.RouteLanding
		return nil
	}
}

// mountGate protects a fresh visit to the dashboard. Gates mount once.
func (a *App) mountGate() tea.Cmd {
	a.closeGate()
	gate := authgate.NewGate(a.deps.Sessions, a.deps.Profiles, a.nav, a.deps.Logger)
	a.gate = gate
	a.ready = false

	ctx := a.ctx
	logger := a.logger
	return func() tea.Msg {
		state, err := gate.Mount(ctx)
		if err != nil {
			logger.Warn("gate mount failed", "error", err)
		}
		return gateMountedMsg{gate: gate, state: state}
	}
}

func (a *App) closeGate() {
	if a.gate != nil {
		a.gate.Close()
		a.gate = nil
	}
	a.ready = false
}

func (a *App) quit() tea.Cmd {
	a.quitting = true
	a.closeGate()
	a.deps.Studio.Close()
	return tea.Quit
}

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	switch a.route {
	case authgate.RouteDashboard:
		if !a.ready {
			return lipgloss.NewStyle().Padding(1, 2).Render(a.styles.Muted.Render("Checking your session…"))
		}
		return a.dashboard.View()
	case authgate.RouteLanding:
		return a.landingView()
	default:
		return a.login.View()
	}
}

func (a *App) landingView() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Flashforge") + "\n\n")
	b.WriteString(a.styles.Normal.Render("Turn your notes into flashcards.") + "\n")
	b.WriteString(a.styles.Muted.Render("You are signed out.") + "\n\n")
	b.WriteString(a.styles.Help.Render("enter: sign in · q: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
