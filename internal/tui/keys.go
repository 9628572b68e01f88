package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the browse interface.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Back     key.Binding
	Tab      key.Binding
	VoteUp   key.Binding
	VoteDown key.Binding
	Save     key.Binding
	Comment  key.Binding
	Simulate key.Binding
	Category key.Binding
	Sort     key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// DefaultKeyMap is the standard binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "feed/saved"),
	),
	VoteUp: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "upvote"),
	),
	VoteDown: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "downvote"),
	),
	Save: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "save"),
	),
	Comment: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "comment"),
	),
	Simulate: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "simulate price"),
	),
	Category: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "category"),
	),
	Sort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
