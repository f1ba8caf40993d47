package layout

// Store holds the current layout snapshot for one panel and replaces it
// wholesale on every write.
//
// A Store is confined to the goroutine driving the UI update loop and does
// no locking of its own.
type Store struct {
	tree     Tree
	onChange func(Tree)
}

// NewStore seeds a store with DefaultTree merged with overrides.
// onChange, when non-nil, receives the new snapshot after every Set.
func NewStore(overrides Tree, onChange func(Tree)) *Store {
	return &Store{
		tree:     New(overrides),
		onChange: onChange,
	}
}

// Snapshot returns the current tree.
func (s *Store) Snapshot() Tree {
	return s.tree
}

// Get returns the value at path, or def.
func (s *Store) Get(path Path, def any) any {
	return s.tree.Get(path, def)
}

// GetBool is Get for boolean flags. A stored value of another type yields def.
func (s *Store) GetBool(path Path, def bool) bool {
	v, ok := s.tree.Get(path, def).(bool)
	if !ok {
		return def
	}
	return v
}

// Set stores value at path, producing a new snapshot.
func (s *Store) Set(path Path, value any) {
	if len(path) == 0 {
		return
	}
	s.tree = s.tree.Set(path, value)
	if s.onChange != nil {
		s.onChange(s.tree)
	}
}

// OnChange replaces the change callback.
func (s *Store) OnChange(fn func(Tree)) {
	s.onChange = fn
}
