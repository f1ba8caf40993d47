package panel

import tea "github.com/charmbracelet/bubbletea"

// InputState is what an entry's control currently shows. Groups decide
// whether they hold edited data from this, not from the committed model
// value, because a draft may differ from the model while an edit is in
// flight.
type InputState struct {
	Value    string
	Checked  bool
	Disabled bool
}

// Entry is one labelled control bound to a single field of the element.
//
// The panel calls Mount once before anything else and Dispose once when
// the entry is removed or the selection changes. Sync runs after every
// update pass so the entry can pick up changes to the element made
// elsewhere.
type Entry interface {
	ID() string
	Mount(svc *Services)
	Sync()
	Update(msg tea.Msg) tea.Cmd
	View(focused bool, width int) string
	Input() InputState
	Focus() tea.Cmd
	Blur()
	Dispose()
}

// Reconfigurer is implemented by entries that can take over the
// configuration of a freshly built replacement while keeping their local
// state. It returns false if next is not compatible.
type Reconfigurer interface {
	Reconfigure(next Entry) bool
}

// EntryDefinition places an entry in a group.
type EntryDefinition struct {
	ID        string
	Component Entry
	// IsEdited reports whether the entry's control holds non-default
	// content. Entries without it never mark their group as edited.
	IsEdited func(InputState) bool
}

type mountedEntry struct {
	def   EntryDefinition
	entry Entry
}

func (m mountedEntry) edited() bool {
	return m.def.IsEdited != nil && m.def.IsEdited(m.entry.Input())
}

// mountEntries mounts defs, reusing entries from prev where the id
// matches and the old entry accepts the new configuration. Entries from
// prev that are not reused are disposed.
func mountEntries(svc *Services, prev []mountedEntry, defs []EntryDefinition) []mountedEntry {
	byID := make(map[string]mountedEntry, len(prev))
	for _, m := range prev {
		byID[m.def.ID] = m
	}

	next := make([]mountedEntry, 0, len(defs))
	for _, def := range defs {
		if def.Component == nil {
			continue
		}
		if old, ok := byID[def.ID]; ok {
			delete(byID, def.ID)
			if r, ok := old.entry.(Reconfigurer); ok && old.entry != def.Component && r.Reconfigure(def.Component) {
				next = append(next, mountedEntry{def: def, entry: old.entry})
				continue
			}
			if old.entry == def.Component {
				next = append(next, mountedEntry{def: def, entry: old.entry})
				continue
			}
			old.entry.Dispose()
		}
		def.Component.Mount(svc)
		next = append(next, mountedEntry{def: def, entry: def.Component})
	}

	for _, m := range byID {
		m.entry.Dispose()
	}
	return next
}

func disposeEntries(entries []mountedEntry) {
	for _, m := range entries {
		m.entry.Dispose()
	}
}
