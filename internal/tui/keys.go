package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Book     key.Binding
	History  key.Binding
	Confirm  key.Binding
	Track    key.Binding
	Bookings key.Binding
	Arrived  key.Binding
	Toggle   key.Binding
	Work     key.Binding
	Finish   key.Binding
	Rate     key.Binding
	Home     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding

	// extra holds bindings contributed by the active component.
	extra []key.Binding
	// screen holds the bindings that apply on the current screen.
	screen []key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Book: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "book a machine"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Track: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "track"),
		),
		Bookings: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "my bookings"),
		),
		Arrived: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "arrival countdown"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Work: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "start work"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish work"),
		),
		Rate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rate"),
		),
		Home: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "home"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
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

func (k KeyMap) ShortHelp() []key.Binding {
	out := append([]key.Binding{}, k.screen...)
	out = append(out, k.extra...)
	return append(out, k.Back, k.Help, k.Quit)
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		append(append([]key.Binding{}, k.screen...), k.extra...),
		{k.Back, k.Home, k.Help, k.Quit},
	}
}
