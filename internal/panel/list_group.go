package panel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var listKeys = DefaultKeyMap()

type listItem struct {
	def     ListItemDefinition
	entries []mountedEntry
}

// ListGroup is a group of removable items, each with its own entries.
// It counts as edited whenever it has at least one item.
//
// Item open state lives under groups.<id>.items.<itemID>.open and
// defaults to the item's AutoOpen.
type ListGroup struct {
	def   ListGroupDefinition
	svc   *Services
	items []*listItem
}

// NewListGroup returns an unmounted list group.
func NewListGroup(def ListGroupDefinition) *ListGroup {
	return &ListGroup{def: def}
}

func (g *ListGroup) ID() string { return g.def.ID }

func (g *ListGroup) Mount(svc *Services) {
	g.svc = svc
	if g.def.ShouldOpen {
		svc.SetLayout(groupOpenPath(g.def.ID), true)
	}
	g.items = g.buildItems(nil, g.def.Items, false)
}

func (g *ListGroup) Reconcile(def Definition) bool {
	next, ok := def.(ListGroupDefinition)
	if !ok {
		return false
	}
	g.def = next
	g.items = g.buildItems(g.items, next.Items, true)
	return true
}

// buildItems mounts items in display order. When announce is set, items
// that were not present before and name an AutoFocusEntry are opened and
// the entry is revealed.
func (g *ListGroup) buildItems(prev []*listItem, defs []ListItemDefinition, announce bool) []*listItem {
	byID := make(map[string]*listItem, len(prev))
	for _, it := range prev {
		byID[it.def.ID] = it
	}

	items := make([]*listItem, 0, len(defs))
	var reveal string
	for _, def := range defs {
		old, existed := byID[def.ID]
		var entries []mountedEntry
		if existed {
			entries = old.entries
			delete(byID, def.ID)
		}
		items = append(items, &listItem{
			def:     def,
			entries: mountEntries(g.svc, entries, def.Entries),
		})
		if announce && !existed && def.AutoFocusEntry != "" {
			g.svc.SetLayout(groupOpenPath(g.def.ID), true)
			g.svc.SetLayout(itemOpenPath(g.def.ID, def.ID), true)
			reveal = def.AutoFocusEntry
		}
	}

	for _, it := range byID {
		disposeEntries(it.entries)
	}

	if g.def.ShouldSort {
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].def.Label) < strings.ToLower(items[j].def.Label)
		})
	}

	if reveal != "" {
		g.svc.Reveal(reveal)
	}
	return items
}

func (g *ListGroup) Open() bool {
	return g.svc.LayoutBool(groupOpenPath(g.def.ID), false)
}

func (g *ListGroup) itemOpen(it *listItem) bool {
	return g.svc.LayoutBool(itemOpenPath(g.def.ID, it.def.ID), it.def.AutoOpen)
}

func (g *ListGroup) Toggle(row Row) {
	if row.Kind == ItemHeaderRow {
		if it := g.item(row.Item); it != nil {
			g.svc.SetLayout(itemOpenPath(g.def.ID, it.def.ID), !g.itemOpen(it))
		}
		return
	}
	g.svc.SetLayout(groupOpenPath(g.def.ID), !g.Open())
}

func (g *ListGroup) Edited() bool { return len(g.items) > 0 }

func (g *ListGroup) Settle() {}

// ItemIDs returns the item ids in display order.
func (g *ListGroup) ItemIDs() []string {
	ids := make([]string, len(g.items))
	for i, it := range g.items {
		ids[i] = it.def.ID
	}
	return ids
}

func (g *ListGroup) Rows() []Row {
	rows := []Row{{Kind: GroupHeaderRow, Group: g.def.ID}}
	if !g.Open() {
		return rows
	}
	for _, it := range g.items {
		rows = append(rows, Row{Kind: ItemHeaderRow, Group: g.def.ID, Item: it.def.ID})
		if !g.itemOpen(it) {
			continue
		}
		for _, m := range it.entries {
			rows = append(rows, Row{Kind: EntryRow, Group: g.def.ID, Item: it.def.ID, Entry: m.def.ID})
		}
	}
	return rows
}

func (g *ListGroup) Entry(row Row) Entry {
	if it := g.item(row.Item); it != nil {
		return findEntry(it.entries, row.Entry)
	}
	return nil
}

func (g *ListGroup) Entries() []Entry {
	var out []Entry
	for _, it := range g.items {
		for _, m := range it.entries {
			out = append(out, m.entry)
		}
	}
	return out
}

func (g *ListGroup) Locate(entryID string) bool {
	for _, it := range g.items {
		if findEntry(it.entries, entryID) == nil {
			continue
		}
		if !g.Open() {
			g.svc.SetLayout(groupOpenPath(g.def.ID), true)
		}
		if !g.itemOpen(it) {
			g.svc.SetLayout(itemOpenPath(g.def.ID, it.def.ID), true)
		}
		return true
	}
	return false
}

func (g *ListGroup) HandleKey(row Row, msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, listKeys.Add) && row.Kind == GroupHeaderRow:
		if g.def.Add == nil {
			return nil, false
		}
		g.def.Add()
		return groupChanged(g.def.ID), true

	case key.Matches(msg, listKeys.Remove) && row.Kind == ItemHeaderRow:
		it := g.item(row.Item)
		if it == nil || it.def.Remove == nil {
			return nil, false
		}
		it.def.Remove()
		return groupChanged(g.def.ID), true
	}
	return nil, false
}

func (g *ListGroup) View(focus Row, hasFocus bool, width int) (string, int) {
	var b strings.Builder
	focusLine := -1
	mine := hasFocus && focus.Group == g.def.ID

	if mine && focus.Kind == GroupHeaderRow {
		focusLine = 0
	}
	suffix := fmt.Sprintf("(%d)", len(g.items))
	b.WriteString(renderHeader(g.def.Label, suffix, g.Open(), g.Edited(), mine && focus.Kind == GroupHeaderRow, 0))

	if !g.Open() {
		return b.String(), focusLine
	}

	line := 1
	for _, it := range g.items {
		itemFocused := mine && focus.Kind == ItemHeaderRow && focus.Item == it.def.ID
		if itemFocused {
			focusLine = line
		}
		b.WriteString("\n")
		b.WriteString(renderHeader(it.def.Label, "", g.itemOpen(it), false, itemFocused, 2))
		line++

		if !g.itemOpen(it) {
			continue
		}
		for _, m := range it.entries {
			focused := mine && focus.Kind == EntryRow && focus.Item == it.def.ID && focus.Entry == m.def.ID
			if focused {
				focusLine = line
			}
			block := renderEntry(m.entry, focused, width, EntryIndent+2)
			b.WriteString("\n")
			b.WriteString(block)
			line += lipgloss.Height(block)
		}
	}
	return b.String(), focusLine
}

func (g *ListGroup) Dispose() {
	for _, it := range g.items {
		disposeEntries(it.entries)
	}
	g.items = nil
}

func (g *ListGroup) item(id string) *listItem {
	for _, it := range g.items {
		if it.def.ID == id {
			return it
		}
	}
	return nil
}
