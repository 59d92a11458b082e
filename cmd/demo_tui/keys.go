package demo_tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattsolo1/grove-core/tui/keymap"
)

type KeyMap struct {
	keymap.Base
	Open             key.Binding
	Close            key.Binding
	Expand           key.Binding
	Minimize         key.Binding
	NextLocale       key.Binding
	NextConversation key.Binding
	NextLayout       key.Binding
}

func NewKeyMap() KeyMap {
	return KeyMap{
		Base: keymap.NewBase(),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open chat"),
		),
		Close: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x/esc", "close chat"),
		),
		Expand: key.NewBinding(
			key.WithKeys("e", "+"),
			key.WithHelp("e", "expand window"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m", "-"),
			key.WithHelp("m", "minimize window"),
		),
		NextLocale: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "next locale"),
		),
		NextConversation: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next conversation"),
		),
		NextLayout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "next layout"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Close, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Chat window")),
			k.Open,
			k.Close,
			k.Expand,
			k.Minimize,
			k.Up,
			k.Down,
		},
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Demo")),
			k.NextConversation,
			k.NextLocale,
			k.NextLayout,
			k.Help,
			k.Quit,
		},
	}
}
