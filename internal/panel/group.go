package panel

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Group is the built-in collapsible group.
//
// Its open state lives in the layout store under groups.<id>.open and
// defaults to closed. The group is edited when at least one entry with an
// IsEdited predicate reports true for what its control currently shows.
type Group struct {
	def     GroupDefinition
	svc     *Services
	entries []mountedEntry
	edited  bool
}

// NewGroup returns an unmounted group.
func NewGroup(def GroupDefinition) *Group {
	return &Group{def: def}
}

func (g *Group) ID() string { return g.def.ID }

// Label returns the group's title.
func (g *Group) Label() string { return g.def.Label }

func (g *Group) Mount(svc *Services) {
	g.svc = svc
	if g.def.ShouldOpen {
		svc.SetLayout(groupOpenPath(g.def.ID), true)
	}
	g.entries = mountEntries(svc, nil, g.def.Entries)
	g.Settle()
}

func (g *Group) Reconcile(def Definition) bool {
	next, ok := def.(GroupDefinition)
	if !ok || next.Component != nil {
		return false
	}
	g.def = next
	g.entries = mountEntries(g.svc, g.entries, next.Entries)
	g.Settle()
	return true
}

func (g *Group) Open() bool {
	return g.svc.LayoutBool(groupOpenPath(g.def.ID), false)
}

func (g *Group) Toggle(Row) {
	g.svc.SetLayout(groupOpenPath(g.def.ID), !g.Open())
}

func (g *Group) Edited() bool { return g.edited }

func (g *Group) Settle() {
	g.edited = false
	for _, m := range g.entries {
		if m.edited() {
			g.edited = true
			return
		}
	}
}

func (g *Group) Rows() []Row {
	rows := []Row{{Kind: GroupHeaderRow, Group: g.def.ID}}
	if !g.Open() {
		return rows
	}
	for _, m := range g.entries {
		rows = append(rows, Row{Kind: EntryRow, Group: g.def.ID, Entry: m.def.ID})
	}
	return rows
}

func (g *Group) Entry(row Row) Entry {
	return findEntry(g.entries, row.Entry)
}

func (g *Group) Entries() []Entry {
	out := make([]Entry, len(g.entries))
	for i, m := range g.entries {
		out[i] = m.entry
	}
	return out
}

func (g *Group) Locate(entryID string) bool {
	if findEntry(g.entries, entryID) == nil {
		return false
	}
	if !g.Open() {
		g.svc.SetLayout(groupOpenPath(g.def.ID), true)
	}
	return true
}

func (g *Group) HandleKey(Row, tea.KeyMsg) (tea.Cmd, bool) {
	return nil, false
}

func (g *Group) View(focus Row, hasFocus bool, width int) (string, int) {
	var b strings.Builder
	focusLine := -1

	headerFocused := hasFocus && focus.Kind == GroupHeaderRow && focus.Group == g.def.ID
	if headerFocused {
		focusLine = 0
	}
	b.WriteString(renderHeader(g.def.Label, "", g.Open(), g.edited, headerFocused, 0))

	if !g.Open() {
		return b.String(), focusLine
	}

	line := 1
	for _, m := range g.entries {
		focused := hasFocus && focus.Kind == EntryRow && focus.Group == g.def.ID && focus.Entry == m.def.ID
		if focused {
			focusLine = line
		}
		block := renderEntry(m.entry, focused, width, EntryIndent)
		b.WriteString("\n")
		b.WriteString(block)
		line += lipgloss.Height(block)
	}
	return b.String(), focusLine
}

func (g *Group) Dispose() {
	disposeEntries(g.entries)
	g.entries = nil
}

func findEntry(entries []mountedEntry, id string) Entry {
	for _, m := range entries {
		if m.def.ID == id {
			return m.entry
		}
	}
	return nil
}

func renderHeader(label, suffix string, open, edited, focused bool, indent int) string {
	arrow := arrowClosed
	if open {
		arrow = arrowOpen
	}

	style := EmptyGroupHeaderStyle
	if edited {
		style = GroupHeaderStyle
	}
	if focused {
		style = FocusedRowStyle
	}

	mark := " "
	if focused {
		mark = cursorMark
	}

	text := mark + " " + arrow + " " + label
	if suffix != "" {
		text += " " + suffix
	}
	line := strings.Repeat(" ", indent) + style.Render(text)
	if edited {
		line += " " + EditedMarkerStyle.Render(editedDot)
	}
	return line
}

func renderEntry(e Entry, focused bool, width, indent int) string {
	inner := width - indent
	if inner < 10 {
		inner = 10
	}
	return lipgloss.NewStyle().PaddingLeft(indent).Render(e.View(focused, inner))
}
