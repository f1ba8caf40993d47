package panel

// ErrorStore holds the global error messages reported for a panel's
// entries. Its contents are only ever replaced as a whole.
type ErrorStore struct {
	errors map[string]string
}

// NewErrorStore returns an empty store.
func NewErrorStore() *ErrorStore {
	return &ErrorStore{errors: map[string]string{}}
}

// Get returns the error for id, or "" when there is none.
func (s *ErrorStore) Get(id string) string {
	if s == nil {
		return ""
	}
	return s.errors[id]
}

// Replace discards every stored error and stores errors instead.
// The map is copied so later changes by the caller have no effect.
func (s *ErrorStore) Replace(errors map[string]string) {
	next := make(map[string]string, len(errors))
	for id, msg := range errors {
		if msg != "" {
			next[id] = msg
		}
	}
	s.errors = next
}

// All returns a copy of the stored errors.
func (s *ErrorStore) All() map[string]string {
	out := make(map[string]string, len(s.errors))
	for id, msg := range s.errors {
		out[id] = msg
	}
	return out
}

// Len returns the number of entries with an error.
func (s *ErrorStore) Len() int {
	return len(s.errors)
}
