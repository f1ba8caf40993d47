package panel

import tea "github.com/charmbracelet/bubbletea"

// RefreshMsg makes the panel re-read the element without any other
// input. Hosts send it after changing the element outside the panel.
type RefreshMsg struct{}

// GroupChangedMsg is emitted after a list group called its definition's
// Add or Remove. The host rebuilds its definitions and calls SetProps.
type GroupChangedMsg struct {
	Group string
}

func groupChanged(id string) tea.Cmd {
	return func() tea.Msg {
		return GroupChangedMsg{Group: id}
	}
}
