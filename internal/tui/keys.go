package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for both screens.
type KeyMap struct {
	Quit            key.Binding
	DirectoryScreen key.Binding
	GroceryScreen   key.Binding
	SwitchScreen    key.Binding
	Dismiss         key.Binding

	// Directory.
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Refresh  key.Binding

	// Grocery.
	NextField  key.Binding
	PrevField  key.Binding
	Submit     key.Binding
	Toggle     key.Binding
	Delete     key.Binding
	NextFilter key.Binding
	NextSort   key.Binding
}

// DefaultKeyMap is the built-in key binding set. Letters are left free for
// the text inputs; list-only actions apply when the grocery list has focus.
var DefaultKeyMap = KeyMap{
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("C-c", "quit"),
	),
	DirectoryScreen: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("F1", "directory"),
	),
	GroceryScreen: key.NewBinding(
		key.WithKeys("f2"),
		key.WithHelp("F2", "groceries"),
	),
	SwitchScreen: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("C-t", "switch screen"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "page down"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "refresh"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "space", "x"),
		key.WithHelp("space", "toggle"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	NextFilter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	NextSort: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "sort"),
	),
}
