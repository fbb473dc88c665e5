package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/flashforge/internal/authgate"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/export"
	"github.com/phrazzld/flashforge/internal/flipcard"
	"github.com/phrazzld/flashforge/internal/studio"
)

// ThemeSaver stores the signed-in user's card theme.
type ThemeSaver interface {
	SaveTheme(ctx context.Context, theme domain.ProfileTheme) error
}

// Deps aggregates the collaborators of the studio surfaces.
type Deps struct {
	Sessions authgate.SessionProvider
	// Auth signs existing users in.
	Auth authgate.Authenticator
	// Registrar creates accounts; nil hides the create-account mode.
	Registrar authgate.Authenticator
	Profiles  authgate.ProfileReader
	Themes    ThemeSaver
	Studio    *studio.ViewModel
	Deliverer export.Deliverer
	Clipboard flipcard.Clipboard
	Logger    *slog.Logger
}

// Validate ensures all required collaborators are set.
func (d *Deps) Validate() error {
	switch {
	case d == nil:
		return errors.New("deps cannot be nil")
	case d.Sessions == nil:
		return errors.New("session provider is required")
	case d.Auth == nil:
		return errors.New("authenticator is required")
	case d.Studio == nil:
		return errors.New("studio view-model is required")
	case d.Deliverer == nil:
		return errors.New("export deliverer is required")
	}
	return nil
}

// AuthenticatorFunc adapts a function to authgate.Authenticator. It lets a
// registration call stand in for sign-in on the create-account form.
type AuthenticatorFunc func(ctx context.Context, email, password string) (*authgate.Session, error)

// SignIn implements authgate.Authenticator.
func (f AuthenticatorFunc) SignIn(ctx context.Context, email, password string) (*authgate.Session, error) {
	return f(ctx, email, password)
}
