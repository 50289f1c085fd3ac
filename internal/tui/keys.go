package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Speed key.Binding
	Tap   key.Binding
	Hold  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var Keys = KeyMap{
	Speed: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "slow down"),
	),
	Tap: key.NewBinding(
		key.WithKeys("f", " "),
		key.WithHelp("f", "skip (twice: finish)"),
	),
	Hold: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "hold: 1s steps"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "close"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Speed, k.Tap, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Speed, k.Tap, k.Hold},
		{k.Help, k.Quit},
	}
}
