// SPDX-License-Identifier: MPL-2.0

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the builder's key bindings.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextPane   key.Binding
	FocusTree  key.Binding
	Toggle     key.Binding
	PrevChoice key.Binding
	NextChoice key.Binding
	AddValue   key.Binding
	DropValue  key.Binding
	ClearField key.Binding
	Info       key.Binding
	Run        key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "navigate"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		FocusTree: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "command tree"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		PrevChoice: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "cycle choices"),
		),
		NextChoice: key.NewBinding(
			key.WithKeys("right"),
		),
		AddValue: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "add value"),
		),
		DropValue: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "drop last value"),
		),
		ClearField: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear field"),
		),
		Info: key.NewBinding(
			key.WithKeys("ctrl+i"),
			key.WithHelp("ctrl+i", "command info"),
		),
		Run: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "close & run"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPane, k.Run, k.Info, k.ClearField, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.NextPane, k.FocusTree},
		{k.Toggle, k.PrevChoice, k.AddValue, k.DropValue, k.ClearField},
		{k.Info, k.Run, k.Quit},
	}
}
