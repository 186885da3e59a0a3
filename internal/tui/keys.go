package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Tab      key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Cycle    key.Binding
	Move     key.Binding
	Delete   key.Binding
	Notes    key.Binding
	Friday   key.Binding
	Monday   key.Binding
	Insights key.Binding
	Clear    key.Binding
	Cancel   key.Binding
	Help     key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Move, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Up, k.Down, k.Left, k.Right, k.Enter, k.Cancel},
		{k.Cycle, k.Move, k.Delete, k.Notes},
		{k.Friday, k.Monday, k.Insights, k.Clear, k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev day"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next day"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "place"),
		),
		Cycle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "next in slot"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "pick up"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Notes: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "notes"),
		),
		Friday: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle friday"),
		),
		Monday: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "toggle monday"),
		),
		Insights: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insights"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear plan"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}
