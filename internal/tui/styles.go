package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the lipgloss styles used by every view.
type Styles struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Tag       lipgloss.Style
	Help      lipgloss.Style

	Input       lipgloss.Style
	InputActive lipgloss.Style

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	// CardThemed is used for faces that carry a background image.
	CardThemed lipgloss.Style
}

// DefaultStyles returns the studio palette.
func DefaultStyles() *Styles {
	var (
		primary   = lipgloss.Color("#7C3AED")
		secondary = lipgloss.Color("#06B6D4")
		fg        = lipgloss.Color("#CDD6F4")
		muted     = lipgloss.Color("#6C7086")
		success   = lipgloss.Color("#A6E3A1")
		danger    = lipgloss.Color("#F38BA8")
		warning   = lipgloss.Color("#F9E2AF")
		border    = lipgloss.Color("#45475A")
	)

	card := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)

	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		Subtitle:  lipgloss.NewStyle().Bold(true).Foreground(secondary),
		Normal:    lipgloss.NewStyle().Foreground(fg),
		Muted:     lipgloss.NewStyle().Foreground(muted),
		Error:     lipgloss.NewStyle().Foreground(danger),
		Success:   lipgloss.NewStyle().Foreground(success),
		User:      lipgloss.NewStyle().Bold(true).Foreground(secondary),
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(primary),
		Tag:       lipgloss.NewStyle().Foreground(warning),
		Help:      lipgloss.NewStyle().Foreground(muted),

		Input:       lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		InputActive: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(0, 1),

		Card:         card,
		CardSelected: card.BorderForeground(primary),
		CardThemed:   card.BorderStyle(lipgloss.DoubleBorder()).BorderForeground(secondary),
	}
}
