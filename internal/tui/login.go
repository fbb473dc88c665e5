package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/flashforge/internal/authgate"
)

// LoginView is the email and password form behind RouteLogin. In create
// mode it registers a new account instead of signing in.
type LoginView struct {
	styles *Styles
	keys   *KeyMap

	signIn   *authgate.LoginGate
	register *authgate.LoginGate

	email    textinput.Model
	password textinput.Model
	spinner  spinner.Model
	focus    int
	create   bool
	busy     bool
}

// NewLoginView creates a LoginView. register may be nil.
func NewLoginView(s *Styles, km *KeyMap, signIn, register *authgate.LoginGate) *LoginView {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = "Email    "
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 72

	return &LoginView{
		styles:   s,
		keys:     km,
		signIn:   signIn,
		register: register,
		email:    email,
		password: password,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init focuses the email field.
func (v *LoginView) Init() tea.Cmd {
	v.focus = 0
	v.password.Blur()
	return v.email.Focus()
}

// Mount checks for an existing session, which skips the form.
func (v *LoginView) Mount(ctx context.Context) tea.Cmd {
	gate := v.signIn
	return func() tea.Msg {
		return loginMountedMsg{navigated: gate.Mount(ctx)}
	}
}

// Update handles messages for the login view.
func (v *LoginView) Update(ctx context.Context, msg tea.Msg) (*LoginView, tea.Cmd) {
	switch msg := msg.(type) {
	case signInDoneMsg:
		v.busy = false
		if msg.err == nil {
			v.password.Reset()
		}
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.busy {
			return v, nil
		}
		switch {
		case key.Matches(msg, v.keys.NextField):
			return v, v.toggleFocus()
		case key.Matches(msg, v.keys.Register) && v.register != nil:
			v.create = !v.create
			return v, nil
		case key.Matches(msg, v.keys.Submit):
			if v.focus == 0 {
				return v, v.toggleFocus()
			}
			return v, v.submit(ctx)
		}
	}

	var cmd tea.Cmd
	if v.focus == 0 {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

func (v *LoginView) toggleFocus() tea.Cmd {
	if v.focus == 0 {
		v.focus = 1
		v.email.Blur()
		return v.password.Focus()
	}
	v.focus = 0
	v.password.Blur()
	return v.email.Focus()
}

func (v *LoginView) gate() *authgate.LoginGate {
	if v.create && v.register != nil {
		return v.register
	}
	return v.signIn
}

func (v *LoginView) submit(ctx context.Context) tea.Cmd {
	gate := v.gate()
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	v.busy = true

	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return signInDoneMsg{err: gate.SignIn(ctx, email, password)}
	})
}

// Error returns the inline sign-in error, or "".
func (v *LoginView) Error() string {
	return v.gate().Error()
}

// View renders the form.
func (v *LoginView) View() string {
	title := "Sign in to Flashforge"
	action := "Sign in"
	if v.create {
		title = "Create a Flashforge account"
		action = "Create account"
	}

	emailStyle, passwordStyle := v.styles.InputActive, v.styles.Input
	if v.focus == 1 {
		emailStyle, passwordStyle = v.styles.Input, v.styles.InputActive
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render(title) + "\n\n")
	b.WriteString(emailStyle.Render(v.email.View()) + "\n")
	b.WriteString(passwordStyle.Render(v.password.View()) + "\n\n")

	switch {
	case v.busy:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render(action+"…"))
	case v.Error() != "":
		b.WriteString(v.styles.Error.Render(v.Error()))
	default:
		b.WriteString(v.styles.Muted.Render("enter: " + strings.ToLower(action)))
	}
	b.WriteString("\n\n")

	hints := []string{"tab: next field"}
	if v.register != nil {
		hints = append(hints, "ctrl+n: sign in/create account")
	}
	hints = append(hints, "ctrl+c: quit")
	b.WriteString(v.styles.Help.Render(strings.Join(hints, " · ")))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
