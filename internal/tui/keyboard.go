package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// RunKeyMap defines the dashboard shortcuts
type RunKeyMap struct {
	Stop     key.Binding
	Rerun    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Clear    key.Binding
}

// DefaultKeyMap returns the default key mappings
func DefaultKeyMap() RunKeyMap {
	return RunKeyMap{
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "re-run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q", "esc"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdown", "page down"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear output"),
		),
	}
}

// ShortHelp lists the bindings shown in the footer
func (k RunKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Rerun, k.Clear, k.Up, k.Down, k.Quit}
}
