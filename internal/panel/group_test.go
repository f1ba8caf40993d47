package panel

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartap-inspector/internal/layout"
)

// fakeEntry shows whatever value is set on it.
type fakeEntry struct {
	id           string
	value        string
	mounted      int
	disposed     int
	reconfigured int
}

func (f *fakeEntry) ID() string                  { return f.id }
func (f *fakeEntry) Mount(*Services)             { f.mounted++ }
func (f *fakeEntry) Sync()                       {}
func (f *fakeEntry) Update(tea.Msg) tea.Cmd      { return nil }
func (f *fakeEntry) View(bool, int) string       { return f.id + ": " + f.value }
func (f *fakeEntry) Input() InputState           { return InputState{Value: f.value} }
func (f *fakeEntry) Focus() tea.Cmd              { return nil }
func (f *fakeEntry) Blur()                       {}
func (f *fakeEntry) Dispose()                    { f.disposed++ }
func (f *fakeEntry) Reconfigure(next Entry) bool { f.reconfigured++; return true }

func nonEmpty(s InputState) bool { return s.Value != "" }

func testServices() *Services {
	return NewServices(ServicesConfig{
		Layout: layout.NewStore(nil, nil),
		Errors: NewErrorStore(),
	})
}

func TestGroup_Edited(t *testing.T) {
	a := &fakeEntry{id: "a"}
	b := &fakeEntry{id: "b"}

	tests := []struct {
		name    string
		entries []EntryDefinition
		values  []string
		want    bool
	}{
		{
			name:    "no entries",
			entries: nil,
			want:    false,
		},
		{
			name:    "no predicates",
			entries: []EntryDefinition{{ID: "a", Component: a}, {ID: "b", Component: b}},
			values:  []string{"x", "y"},
			want:    false,
		},
		{
			name:    "one edited",
			entries: []EntryDefinition{{ID: "a", Component: a, IsEdited: nonEmpty}, {ID: "b", Component: b, IsEdited: nonEmpty}},
			values:  []string{"", "y"},
			want:    true,
		},
		{
			name:    "none edited",
			entries: []EntryDefinition{{ID: "a", Component: a, IsEdited: nonEmpty}, {ID: "b", Component: b, IsEdited: nonEmpty}},
			values:  []string{"", ""},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, v := range tt.values {
				tt.entries[i].Component.(*fakeEntry).value = v
			}
			g := NewGroup(GroupDefinition{ID: "g", Entries: tt.entries})
			g.Mount(testServices())

			if got := g.Edited(); got != tt.want {
				t.Errorf("Edited() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroup_EditedRecomputedOnSettle(t *testing.T) {
	e := &fakeEntry{id: "a"}
	g := NewGroup(GroupDefinition{ID: "g", Entries: []EntryDefinition{{ID: "a", Component: e, IsEdited: nonEmpty}}})
	g.Mount(testServices())

	e.value = "typed"
	if g.Edited() {
		t.Error("Edited() changed before Settle")
	}
	g.Settle()
	if !g.Edited() {
		t.Error("Edited() = false after Settle")
	}
}

func TestGroup_OpenStateInLayout(t *testing.T) {
	store := layout.NewStore(nil, nil)
	svc := NewServices(ServicesConfig{Layout: store})
	g := NewGroup(GroupDefinition{ID: "wifi"})
	g.Mount(svc)

	if g.Open() {
		t.Fatal("group open by default")
	}
	g.Toggle(Row{Kind: GroupHeaderRow, Group: "wifi"})

	if got := store.Get(layout.Path{"groups", "wifi", "open"}, nil); got != true {
		t.Errorf("groups.wifi.open = %v, want true", got)
	}
}

func TestGroup_ReconcileReusesEntries(t *testing.T) {
	keep := &fakeEntry{id: "keep"}
	drop := &fakeEntry{id: "drop"}
	g := NewGroup(GroupDefinition{ID: "g", Entries: []EntryDefinition{
		{ID: "keep", Component: keep},
		{ID: "drop", Component: drop},
	}})
	g.Mount(testServices())

	replacement := &fakeEntry{id: "keep"}
	added := &fakeEntry{id: "new"}
	ok := g.Reconcile(GroupDefinition{ID: "g", Entries: []EntryDefinition{
		{ID: "keep", Component: replacement},
		{ID: "new", Component: added},
	}})

	if !ok {
		t.Fatal("Reconcile() = false")
	}
	if keep.reconfigured != 1 || replacement.mounted != 0 {
		t.Errorf("keep reconfigured %d times, replacement mounted %d times", keep.reconfigured, replacement.mounted)
	}
	if drop.disposed != 1 {
		t.Errorf("drop disposed %d times, want 1", drop.disposed)
	}
	if added.mounted != 1 {
		t.Errorf("new entry mounted %d times, want 1", added.mounted)
	}
	if got := g.Entries(); len(got) != 2 || got[0] != Entry(keep) {
		t.Errorf("Entries() = %v", got)
	}

	if g.Reconcile(ListGroupDefinition{ID: "g"}) {
		t.Error("Group accepted a list group definition")
	}
}

func TestGroup_Locate(t *testing.T) {
	g := NewGroup(GroupDefinition{ID: "g", Entries: []EntryDefinition{{ID: "a", Component: &fakeEntry{id: "a"}}}})
	g.Mount(testServices())

	if g.Locate("missing") {
		t.Error("Locate(missing) = true")
	}
	if !g.Locate("a") || !g.Open() {
		t.Error("Locate(a) did not open the group")
	}
}

func TestErrorStore_Replace(t *testing.T) {
	s := NewErrorStore()
	in := map[string]string{"a": "bad", "b": ""}
	s.Replace(in)
	in["c"] = "later"

	if got := s.Get("a"); got != "bad" {
		t.Errorf("Get(a) = %q, want bad", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	s.Replace(nil)
	if got := s.Get("a"); got != "" {
		t.Errorf("Get(a) after replace = %q, want empty", got)
	}

	var nilStore *ErrorStore
	if got := nilStore.Get("a"); got != "" {
		t.Errorf("nil store Get() = %q", got)
	}
}

func TestDescriptions_Resolve(t *testing.T) {
	calls := 0
	d := NewDescriptions(DescriptionMap{
		"a": func(el Element) string { calls++; return "for " + el.(string) },
	})

	if got := d.Resolve("a", "x"); got != "for x" {
		t.Errorf("Resolve(a) = %q", got)
	}
	d.Resolve("a", "x")
	if calls != 2 {
		t.Errorf("resolver ran %d times, want 2 (no caching)", calls)
	}
	if got := d.Resolve("missing", "x"); got != "" {
		t.Errorf("Resolve(missing) = %q, want empty", got)
	}
}

func TestElementHelpers(t *testing.T) {
	type thing struct{ n int }
	a, b := &thing{1}, &thing{1}
	list := []*thing{a, b}
	var nilPtr *thing

	tests := []struct {
		name     string
		el       Element
		empty    bool
		multiple bool
	}{
		{"nil", nil, true, false},
		{"nil pointer", nilPtr, true, false},
		{"pointer", a, false, false},
		{"slice", list, false, true},
		{"array", [2]int{1, 2}, false, true},
		{"string", "x", false, false},
	}
	for _, tt := range tests {
		if got := IsEmpty(tt.el); got != tt.empty {
			t.Errorf("IsEmpty(%s) = %v, want %v", tt.name, got, tt.empty)
		}
		if got := IsMultiple(tt.el); got != tt.multiple {
			t.Errorf("IsMultiple(%s) = %v, want %v", tt.name, got, tt.multiple)
		}
	}

	if !SameElement(a, a) || SameElement(a, b) {
		t.Error("SameElement compares pointers by identity")
	}
	if !SameElement(list, list) || SameElement(list, []*thing{a, b}) {
		t.Error("SameElement compares slices by identity")
	}
	if !SameElement(nil, nilPtr) {
		t.Error("SameElement(nil, nil pointer) = false")
	}
	if !SameElement("x", "x") || SameElement("x", 1) {
		t.Error("SameElement on plain values")
	}
}
