package app

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the transcript view's key bindings.
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	NextThought key.Binding
	Toggle      key.Binding
	Follow      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	NextThought: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next thought")),
	Toggle:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
	Follow:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow live")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextThought, k.Toggle, k.Follow, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Follow},
		{k.NextThought, k.Toggle, k.Help, k.Quit},
	}
}
