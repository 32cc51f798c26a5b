package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap is the key help shown at the bottom of the screen. Dispatch lives
// in the input mode handlers; these bindings only describe it.
type keyMap struct {
	Submit  key.Binding
	Modes   key.Binding
	Move    key.Binding
	Pick    key.Binding
	Cancel  key.Binding
	Dismiss key.Binding
	Pager   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		Modes:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "search mode")),
		Move:    key.NewBinding(key.WithKeys("up", "down", "k", "j"), key.WithHelp("↑/↓", "move")),
		Pick:    key.NewBinding(key.WithKeys("1", "2"), key.WithHelp("1-2", "pick")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
		Pager:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open case")),
		Help:    key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// forMenu enables the bindings that apply while the mode menu is open
func (k *keyMap) forMenu(open bool, hasResult bool) {
	k.Modes.SetEnabled(!open)
	k.Move.SetEnabled(open)
	k.Pick.SetEnabled(open)
	k.Cancel.SetEnabled(open)
	k.Dismiss.SetEnabled(!open)
	k.Pager.SetEnabled(!open && hasResult)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Modes, k.Move, k.Cancel, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Modes, k.Dismiss},
		{k.Move, k.Pick, k.Cancel},
		{k.Pager, k.Help, k.Quit},
	}
}
