package tui

import "github.com/charmbracelet/bubbles/key"

// Every binding uses a control key so plain typing reaches the query input.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Quit      key.Binding
	PrevTurn  key.Binding
	NextTurn  key.Binding
	Agent     key.Binding
	PreviewUp key.Binding
	PreviewDn key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("up", "prev transcript"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("dn", "next transcript"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy export cmd"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	PrevTurn: key.NewBinding(
		key.WithKeys("ctrl+p", "shift+up"),
		key.WithHelp("C-p", "prev turn"),
	),
	NextTurn: key.NewBinding(
		key.WithKeys("ctrl+n", "shift+down"),
		key.WithHelp("C-n", "next turn"),
	),
	Agent: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "cycle agent"),
	),
	PreviewUp: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "preview up"),
	),
	PreviewDn: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "preview down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "preview pgup"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "preview pgdn"),
	),
}
