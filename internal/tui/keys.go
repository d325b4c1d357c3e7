package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Start     key.Binding
	Stop      key.Binding
	NextDay   key.Binding
	PrevDay   key.Binding
	Member    key.Binding
	Session   key.Binding
	Stats     key.Binding
	Help      key.Binding
	Quit      key.Binding
	Confirm   key.Binding
	CancelKey key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Start:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start activity")),
		Stop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop activity")),
		PrevDay:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		NextDay:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Member:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next member")),
		Session:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle session")),
		Stats:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "toggle stats")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		CancelKey: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Member, k.Stats, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Session},
		{k.PrevDay, k.NextDay, k.Member, k.Stats},
		{k.Help, k.Quit},
	}
}
