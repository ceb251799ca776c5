package ui

import "github.com/charmbracelet/bubbles/key"

type gameKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Start key.Binding
	Reset key.Binding
	Quit  key.Binding
	Back  key.Binding
	Help  key.Binding
}

func (k gameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Reset, k.Help, k.Quit}
}

func (k gameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Start, k.Reset},
		{k.Back, k.Help, k.Quit},
	}
}

var gameKeys = gameKeyMap{
	Up:    key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
	Right: key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
	Start: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
	Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "menu")),
	Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
}
