package ui

import "github.com/charmbracelet/bubbles/key"

// GlobalKeyMap defines keys available when no overlay has focus.
type GlobalKeyMap struct {
	Quit        key.Binding
	Help        key.Binding
	Settings    key.Binding
	NextTrigger key.Binding
	PrevTrigger key.Binding
	Activate    key.Binding
	PrevPage    key.Binding
	NextPage    key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
}

var GlobalKeys = GlobalKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Settings: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "settings"),
	),
	NextTrigger: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next trigger"),
	),
	PrevTrigger: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("Shift+Tab", "prev trigger"),
	),
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter/Space", "open trigger"),
	),
	PrevPage: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "prev page"),
	),
	NextPage: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "next page"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup", "ctrl+u"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", "ctrl+d"),
		key.WithHelp("PgDn", "page down"),
	),
}

// MenuKeyMap defines keys while a dropdown or sub-menu is open.
type MenuKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Select  key.Binding
	OpenSub key.Binding
	BackSub key.Binding
	Close   key.Binding
}

var MenuKeys = MenuKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("Enter", "choose"),
	),
	OpenSub: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l", "open sub-menu"),
	),
	BackSub: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h", "close sub-menu"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
}

// SelectKeyMap defines keys while a searchable select is open. Printable
// keys go to the search input.
type SelectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Clear  key.Binding
	Close  key.Binding
}

var SelectKeys = SelectKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "choose"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("Ctrl+X", "clear selection"),
	),
	Close: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "close"),
	),
}
