package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/flashforge/internal/authgate"
	"github.com/phrazzld/flashforge/internal/domain"
	"github.com/phrazzld/flashforge/internal/export"
	"github.com/phrazzld/flashforge/internal/flipcard"
	"github.com/phrazzld/flashforge/internal/studio"
)

type focusArea int

const (
	focusNotes focusArea = iota
	focusDeck
	focusTheme
)

// visibleCards is how many cards are rendered around the cursor.
const visibleCards = 4

// transcriptLines is how many transcript entries are shown.
const transcriptLines = 4

// DashboardView is the generation surface behind RouteDashboard.
type DashboardView struct {
	styles *Styles
	keys   *KeyMap
	help   help.Model
	logger *slog.Logger

	vm        *studio.ViewModel
	deck      *flipcard.Deck
	deliverer export.Deliverer
	themes    ThemeSaver

	gate  *authgate.Gate
	theme domain.ProfileTheme
	email string

	notes      textarea.Model
	frontInput textinput.Model
	backInput  textinput.Model
	themeField int
	spinner    spinner.Model

	focus  focusArea
	cursor int
	busy   bool
	genID  int
	status string
	width  int
}

// NewDashboardView creates a DashboardView.
func NewDashboardView(s *Styles, km *KeyMap, deps *Deps) *DashboardView {
	notes := textarea.New()
	notes.Placeholder = "Paste your notes here…"
	notes.ShowLineNumbers = false
	notes.CharLimit = 0
	notes.SetHeight(6)

	front := textinput.New()
	front.Prompt = "Front image URL "
	back := textinput.New()
	back.Prompt = "Back image URL  "

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	v := &DashboardView{
		styles:     s,
		keys:       km,
		help:       help.New(),
		logger:     logger.With("component", "dashboard"),
		vm:         deps.Studio,
		deck:       flipcard.NewDeck(deps.Clipboard, logger),
		deliverer:  deps.Deliverer,
		themes:     deps.Themes,
		notes:      notes,
		frontInput: front,
		backInput:  back,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:      80,
	}
	v.deck.Load(v.vm.Snapshot().Cards)
	return v
}

// Attach binds the view to a mounted gate.
func (v *DashboardView) Attach(gate *authgate.Gate) {
	v.gate = gate
	v.theme = gate.Theme()
	if s := gate.Session(); s != nil {
		v.email = s.Email
	}
}

// Init focuses the notes editor.
func (v *DashboardView) Init() tea.Cmd {
	v.focus = focusNotes
	return v.notes.Focus()
}

// SetWidth resizes the view.
func (v *DashboardView) SetWidth(width int) {
	v.width = width
	v.notes.SetWidth(max(width-6, 20))
	v.help.Width = width
}

// Update handles messages for the dashboard.
func (v *DashboardView) Update(ctx context.Context, msg tea.Msg) (*DashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case generationDoneMsg:
		return v, v.onGenerationDone(msg)

	case exportDoneMsg:
		if msg.err != nil {
			v.status = "Export failed: " + msg.err.Error()
		} else {
			v.status = "Saved " + msg.path
		}
		return v, nil

	case themeSavedMsg:
		if msg.err != nil {
			v.status = "Could not save theme: " + msg.err.Error()
			return v, nil
		}
		v.theme = domain.ProfileTheme{
			FrontImageURL: strings.TrimSpace(v.frontInput.Value()),
			BackImageURL:  strings.TrimSpace(v.backInput.Value()),
		}
		v.status = "Theme saved."
		v.focus = focusDeck
		return v, nil

	case spinner.TickMsg:
		if !v.busy {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Generate) && v.focus != focusTheme {
			return v, v.generate(ctx)
		}
		switch v.focus {
		case focusTheme:
			return v, v.updateTheme(ctx, msg)
		case focusDeck:
			return v, v.updateDeck(ctx, msg)
		default:
			if key.Matches(msg, v.keys.Focus) || key.Matches(msg, v.keys.Cancel) {
				v.focus = focusDeck
				v.notes.Blur()
				return v, nil
			}
		}
	}

	if v.focus == focusNotes {
		var cmd tea.Cmd
		v.notes, cmd = v.notes.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *DashboardView) updateDeck(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	params := v.vm.Snapshot().Params

	switch {
	case key.Matches(msg, v.keys.Focus):
		v.focus = focusNotes
		return v.notes.Focus()
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.deck.Len()-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Flip):
		v.deck.Activate(v.cursor)
	case key.Matches(msg, v.keys.Copy):
		if v.deck.Len() > 0 {
			v.deck.Copy(ctx, v.cursor)
			v.status = fmt.Sprintf("Copied card %d.", v.cursor+1)
		}
	case key.Matches(msg, v.keys.More):
		params.Count++
		v.vm.SetParams(params)
	case key.Matches(msg, v.keys.Fewer):
		params.Count--
		v.vm.SetParams(params)
	case key.Matches(msg, v.keys.Style):
		params.Style = nextStyle(params.Style)
		v.vm.SetParams(params)
	case key.Matches(msg, v.keys.Mode):
		params.Mode = nextMode(params.Mode)
		v.vm.SetParams(params)
	case key.Matches(msg, v.keys.ExportCSV):
		return v.export(ctx, v.vm.ExportCSV)
	case key.Matches(msg, v.keys.ExportJSON):
		return v.export(ctx, v.vm.ExportJSON)
	case key.Matches(msg, v.keys.Reset):
		v.reset()
		return v.notes.Focus()
	case key.Matches(msg, v.keys.Theme):
		return v.openTheme()
	case key.Matches(msg, v.keys.SignOut):
		return v.signOut(ctx)
	}
	return nil
}

func (v *DashboardView) generate(ctx context.Context) tea.Cmd {
	if v.busy {
		v.status = "Still generating…"
		return nil
	}

	notes := v.notes.Value()
	params := v.vm.Snapshot().Params
	v.status = ""
	if strings.TrimSpace(notes) != "" {
		v.busy = true
	}
	v.genID++
	id := v.genID
	vm := v.vm

	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return generationDoneMsg{id: id, err: vm.Submit(ctx, notes, params)}
	})
}

func (v *DashboardView) onGenerationDone(msg generationDoneMsg) tea.Cmd {
	if msg.id != v.genID || errors.Is(msg.err, studio.ErrStale) {
		return nil
	}
	v.busy = false

	snap := v.vm.Snapshot()
	v.deck.Load(snap.Cards)
	if v.cursor >= v.deck.Len() {
		v.cursor = 0
	}
	if msg.err == nil && v.deck.Len() > 0 {
		v.cursor = 0
		v.focus = focusDeck
		v.notes.Blur()
	}
	return nil
}

func (v *DashboardView) export(ctx context.Context, encode func() (export.File, error)) tea.Cmd {
	file, err := encode()
	if errors.Is(err, studio.ErrNothingToExport) {
		v.status = "Nothing to export yet."
		return nil
	}
	if err != nil {
		v.status = "Export failed: " + err.Error()
		return nil
	}

	deliverer := v.deliverer
	return func() tea.Msg {
		path, err := deliverer.Deliver(ctx, file)
		return exportDoneMsg{path: path, err: err}
	}
}

func (v *DashboardView) reset() {
	v.vm.Reset()
	v.notes.Reset()
	v.deck.Load(nil)
	v.cursor = 0
	v.status = ""
	v.focus = focusNotes
}

func (v *DashboardView) openTheme() tea.Cmd {
	if v.themes == nil {
		return nil
	}
	v.frontInput.SetValue(v.theme.FrontImageURL)
	v.backInput.SetValue(v.theme.BackImageURL)
	v.themeField = 0
	v.backInput.Blur()
	v.focus = focusTheme
	return v.frontInput.Focus()
}

func (v *DashboardView) updateTheme(ctx context.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Cancel):
		v.focus = focusDeck
		return nil
	case key.Matches(msg, v.keys.NextField):
		if v.themeField == 0 {
			v.themeField = 1
			v.frontInput.Blur()
			return v.backInput.Focus()
		}
		v.themeField = 0
		v.backInput.Blur()
		return v.frontInput.Focus()
	case key.Matches(msg, v.keys.Submit):
		theme := domain.ProfileTheme{
			FrontImageURL: strings.TrimSpace(v.frontInput.Value()),
			BackImageURL:  strings.TrimSpace(v.backInput.Value()),
		}
		if err := theme.Validate(); err != nil {
			v.status = "Image URLs must be absolute http(s) URLs."
			return nil
		}
		themes := v.themes
		return func() tea.Msg {
			return themeSavedMsg{err: themes.SaveTheme(ctx, theme)}
		}
	}

	var cmd tea.Cmd
	if v.themeField == 0 {
		v.frontInput, cmd = v.frontInput.Update(msg)
	} else {
		v.backInput, cmd = v.backInput.Update(msg)
	}
	return cmd
}

func (v *DashboardView) signOut(ctx context.Context) tea.Cmd {
	gate := v.gate
	if gate == nil {
		return nil
	}
	return func() tea.Msg {
		gate.SignOut(ctx)
		return signedOutMsg{}
	}
}

// Status returns the last status line.
func (v *DashboardView) Status() string {
	return v.status
}

// View renders the dashboard.
func (v *DashboardView) View() string {
	snap := v.vm.Snapshot()
	var b strings.Builder

	header := v.styles.Title.Render("Flashforge")
	if v.email != "" {
		header += v.styles.Muted.Render("  " + v.email)
	}
	b.WriteString(header + "\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Cards: %d · Style: %s · Mode: %s",
		snap.Params.Count, snap.Params.Style.Label(), snap.Params.Mode.Label())) + "\n\n")

	notesStyle := v.styles.Input
	if v.focus == focusNotes {
		notesStyle = v.styles.InputActive
	}
	b.WriteString(notesStyle.Render(v.notes.View()) + "\n")

	switch {
	case v.busy:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Generating flashcards…") + "\n")
	case snap.Error != "":
		b.WriteString(v.styles.Error.Render(snap.Error) + "\n")
	}

	if n := len(snap.Transcript); n > 0 {
		b.WriteString("\n")
		for _, entry := range snap.Transcript[max(n-transcriptLines, 0):] {
			b.WriteString(v.renderEntry(entry) + "\n")
		}
	}

	if v.focus == focusTheme {
		b.WriteString("\n" + v.styles.Subtitle.Render("Card theme") + "\n")
		b.WriteString(v.frontInput.View() + "\n" + v.backInput.View() + "\n")
		b.WriteString(v.styles.Help.Render("enter: save · tab: next field · esc: cancel") + "\n")
	} else if v.deck.Len() > 0 {
		b.WriteString("\n" + v.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", snap.Title, v.deck.Len())) + "\n")
		b.WriteString(v.renderDeck() + "\n")
	}

	if v.status != "" {
		b.WriteString("\n" + v.styles.Success.Render(v.status) + "\n")
	}

	bindings := v.keys.NotesHelp()
	if v.focus == focusDeck {
		bindings = v.keys.DeckHelp()
	}
	b.WriteString("\n" + v.help.ShortHelpView(bindings))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (v *DashboardView) renderEntry(entry domain.TranscriptEntry) string {
	if entry.Role == domain.RoleUser {
		content := entry.Content
		if len(content) > 120 {
			content = content[:117] + "..."
		}
		return v.styles.User.Render("You: ") + v.styles.Normal.Render(strings.ReplaceAll(content, "\n", " "))
	}
	return v.styles.Assistant.Render("Studio: ") + v.styles.Normal.Render(entry.Content)
}

func (v *DashboardView) renderDeck() string {
	start := max(v.cursor-visibleCards/2, 0)
	end := min(start+visibleCards, v.deck.Len())
	start = max(end-visibleCards, 0)

	width := max(v.width-8, 30)
	var rows []string
	for i := start; i < end; i++ {
		rows = append(rows, v.renderCard(i, v.deck.Card(i), width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (v *DashboardView) renderCard(i int, card *flipcard.Card, width int) string {
	bg := card.Background(v.theme)

	style := v.styles.Card
	switch {
	case i == v.cursor && v.focus == focusDeck:
		style = v.styles.CardSelected
	case !bg.None():
		style = v.styles.CardThemed
	}

	var b strings.Builder
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d · %s", i+1, card.Face().Label())) + "\n")
	b.WriteString(v.styles.Normal.Render(card.Text()))
	if tags := card.VisibleTags(); len(tags) > 0 {
		b.WriteString("\n" + v.styles.Tag.Render("#"+strings.Join(tags, " #")))
	}
	if !bg.None() {
		b.WriteString("\n" + v.styles.Muted.Render("backdrop: "+bg.ImageURL))
	}
	return style.Width(width).Render(b.String())
}

func nextStyle(s domain.Style) domain.Style {
	for i, style := range domain.Styles {
		if style == s {
			return domain.Styles[(i+1)%len(domain.Styles)]
		}
	}
	return domain.StyleBalanced
}

func nextMode(m domain.Mode) domain.Mode {
	for i, mode := range domain.Modes {
		if mode == m {
			return domain.Modes[(i+1)%len(domain.Modes)]
		}
	}
	return domain.ModeAuto
}

// Editing reports whether keystrokes go to a text field.
func (v *DashboardView) Editing() bool {
	return v.focus != focusDeck
}
