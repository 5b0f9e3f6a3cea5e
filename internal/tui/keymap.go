package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the app.
type KeyMap struct {
	Submit    key.Binding
	Apply     key.Binding
	Edit      key.Binding
	NextField key.Binding
	PrevField key.Binding
	Cycle     key.Binding
	StartOver key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply effects"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "open in $EDITOR"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("left", "right"),
			key.WithHelp("←/→", "change"),
		),
		StartOver: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "start over"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in every section.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.StartOver, k.Quit}
}

// FullHelp returns all bindings grouped by use.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Apply, k.Edit},
		{k.NextField, k.PrevField, k.Cycle},
		{k.StartOver, k.Quit},
	}
}
