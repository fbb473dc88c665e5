package tui

import (
	"github.com/phrazzld/flashforge/internal/authgate"
)

// navigateMsg asks the app to show another surface.
type navigateMsg struct {
	route   authgate.Route
	replace bool
}

// loginMountedMsg reports whether the login gate skipped to the dashboard.
type loginMountedMsg struct {
	navigated bool
}

// signInDoneMsg carries the outcome of a sign-in or registration.
type signInDoneMsg struct {
	err error
}

// gateMountedMsg carries the outcome of mounting the dashboard gate.
type gateMountedMsg struct {
	gate  *authgate.Gate
	state authgate.State
}

// generationDoneMsg is sent when a Submit returns.
type generationDoneMsg struct {
	id  int
	err error
}

// exportDoneMsg is sent when an export has been delivered.
type exportDoneMsg struct {
	path string
	err  error
}

// themeSavedMsg is sent when a theme update finished.
type themeSavedMsg struct {
	err error
}

// signedOutMsg is sent once the gate has signed out.
type signedOutMsg struct{}
