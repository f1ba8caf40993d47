package inspector

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/muurk/smartap-inspector/internal/panel"
)

// listKeyMap defines key bindings for the device list
type listKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Mark    key.Binding
	Inspect key.Binding
	Rescan  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Mark, k.Inspect, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Mark},
		{k.Inspect, k.Rescan},
		{k.Help, k.Quit},
	}
}

// panelKeyMap adds the inspector's own bindings to the panel's
// navigation keys.
type panelKeyMap struct {
	Nav   panel.KeyMap
	Apply key.Binding
	Reset key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k panelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Nav.Up, k.Nav.Down, k.Nav.Toggle, k.Apply, k.Reset, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k panelKeyMap) FullHelp() [][]key.Binding {
	return append(k.Nav.FullHelp(), []key.Binding{k.Apply, k.Reset, k.Back, k.Quit})
}

func newListKeyMap() listKeyMap {
	return listKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Mark: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "mark"),
		),
		Inspect: key.NewBinding(
			key.WithKeys("enter", "right", "tab"),
			key.WithHelp("enter", "inspect"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "scan"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newPanelKeyMap(nav panel.KeyMap) panelKeyMap {
	return panelKeyMap{
		Nav: nav,
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "apply"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "discard edits"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "device list"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
