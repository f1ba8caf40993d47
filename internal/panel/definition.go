package panel

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartap-inspector/internal/layout"
)

// RowKind tells the panel what a navigable row is.
type RowKind int

const (
	// GroupHeaderRow is a group's title line.
	GroupHeaderRow RowKind = iota
	// ItemHeaderRow is the title line of an item in a list group.
	ItemHeaderRow
	// EntryRow is an entry's control.
	EntryRow
)

// Row is one cursor stop in the panel.
type Row struct {
	Kind  RowKind
	Group string
	Item  string
	Entry string
}

// Definition is a group or list group as supplied by the host.
type Definition interface {
	GroupID() string
	newComponent() GroupComponent
}

// GroupComponent is a mounted group. The built-in implementations are
// Group and ListGroup; a GroupDefinition can supply its own through
// Component.
type GroupComponent interface {
	ID() string
	Mount(svc *Services)
	// Reconcile applies a new definition for the same id, keeping entry
	// state where entries allow it. It returns false if def is of a kind
	// this component cannot take, in which case the panel replaces it.
	Reconcile(def Definition) bool
	// Rows lists the visible cursor stops, header first.
	Rows() []Row
	// Entry returns the mounted entry for an entry row.
	Entry(row Row) Entry
	// Entries returns every mounted entry, visible or not.
	Entries() []Entry
	// Toggle opens or closes the section a header row belongs to.
	Toggle(row Row)
	Open() bool
	Edited() bool
	// Settle recomputes edited state once entries have synced.
	Settle()
	// Locate opens whatever sections hide the entry and reports whether
	// the entry belongs to this group.
	Locate(entryID string) bool
	// HandleKey gives the group first refusal of keys pressed on one of
	// its header rows.
	HandleKey(row Row, msg tea.KeyMsg) (tea.Cmd, bool)
	// View renders the group and returns the line the focused row
	// starts on, or -1 if it is not in this group.
	View(focus Row, hasFocus bool, width int) (string, int)
	Dispose()
}

// GroupDefinition describes a collapsible group of entries.
type GroupDefinition struct {
	ID      string
	Label   string
	Entries []EntryDefinition
	// ShouldOpen opens the group when it is mounted.
	ShouldOpen bool
	// Component replaces the built-in Group.
	Component func(def GroupDefinition) GroupComponent
}

// GroupID implements Definition.
func (d GroupDefinition) GroupID() string { return d.ID }

func (d GroupDefinition) newComponent() GroupComponent {
	if d.Component != nil {
		return d.Component(d)
	}
	return NewGroup(d)
}

// ListItemDefinition is one removable item of a list group.
type ListItemDefinition struct {
	ID      string
	Label   string
	Entries []EntryDefinition
	Remove  func()
	// AutoOpen is the item's open state until the user toggles it.
	AutoOpen bool
	// AutoFocusEntry is focused when the item first appears after mount.
	AutoFocusEntry string
}

// ListGroupDefinition describes a group whose items the user can add and
// remove.
type ListGroupDefinition struct {
	ID         string
	Label      string
	Items      []ListItemDefinition
	Add        func()
	ShouldSort bool
	ShouldOpen bool
}

// GroupID implements Definition.
func (d ListGroupDefinition) GroupID() string { return d.ID }

func (d ListGroupDefinition) newComponent() GroupComponent {
	return NewListGroup(d)
}

func groupOpenPath(groupID string) layout.Path {
	return layout.Path{"groups", groupID, "open"}
}

func itemOpenPath(groupID, itemID string) layout.Path {
	return layout.Path{"groups", groupID, "items", itemID, "open"}
}
