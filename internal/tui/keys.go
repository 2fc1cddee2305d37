package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the session key bindings.
type keyMap struct {
	Browse  key.Binding
	Extract key.Binding
	More    key.Binding
	Fewer   key.Binding
	Left    key.Binding
	Right   key.Binding
	Up      key.Binding
	Down    key.Binding
	Copy    key.Binding
	Export  key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Browse: key.NewBinding(
			key.WithKeys("o", "b"),
			key.WithHelp("o", "browse"),
		),
		Extract: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter", "extract"),
		),
		More: key.NewBinding(
			key.WithKeys("+", "=", "]"),
			key.WithHelp("+/-", "colors"),
		),
		Fewer: key.NewBinding(
			key.WithKeys("-", "_", "["),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←/→", "card"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/↓", "value"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy"),
		),
		Export: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Browse, k.Extract, k.More, k.Copy, k.Export, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Browse, k.Extract, k.More},
		{k.Left, k.Up, k.Copy},
		{k.Export, k.Reset, k.Help, k.Quit},
	}
}

// pickerKeys are shown while the file picker is open.
type pickerKeys struct {
	Open   key.Binding
	Cancel key.Binding
}

var pickerKeyMap = pickerKeys{
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "select/open"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// ShortHelp implements help.KeyMap.
func (k pickerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k pickerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
