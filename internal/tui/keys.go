package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the studio keybindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Submit    key.Binding
	NextField key.Binding
	Focus     key.Binding

	Generate key.Binding
	Up       key.Binding
	Down     key.Binding
	Flip     key.Binding
	Copy     key.Binding
	More     key.Binding
	Fewer    key.Binding
	Style    key.Binding
	Mode     key.Binding

	ExportCSV  key.Binding
	ExportJSON key.Binding
	Reset      key.Binding
	Theme      key.Binding
	SignOut    key.Binding
	Cancel     key.Binding
	Register   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		NextField: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next field")),
		Focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "notes/cards")),

		Generate: key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "generate")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Flip:     key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "flip")),
		Copy:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "count")),
		Fewer:    key.NewBinding(key.WithKeys("-", "_")),
		Style:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "style")),
		Mode:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mode")),

		ExportCSV:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		ExportJSON: key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "export json")),
		Reset:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Theme:      key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		SignOut:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Register:   key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "sign in/create account")),
	}
}

// NotesHelp lists the bindings shown while editing notes.
func (k *KeyMap) NotesHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Focus, k.ForceQuit}
}

// DeckHelp lists the bindings shown while browsing cards.
func (k *KeyMap) DeckHelp() []key.Binding {
	return []key.Binding{
		k.Generate, k.Focus, k.Up, k.Down, k.Flip, k.Copy, k.More, k.Style, k.Mode,
		k.ExportCSV, k.ExportJSON, k.Reset, k.Theme, k.SignOut, k.Quit,
	}
}
