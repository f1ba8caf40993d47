package layout

import (
	"reflect"
	"strings"
)

// Tree is a snapshot of path-addressable UI state.
// A Tree is never modified in place: Set returns a new root that shares
// every branch not touched by the write.
type Tree map[string]any

// Path addresses a location in a Tree, one segment per level.
type Path []string

// ParsePath splits a dotted path ("groups.timers.open") into segments.
// Empty segments are dropped.
func ParsePath(dotted string) Path {
	parts := strings.Split(dotted, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			path = append(path, p)
		}
	}
	return path
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path with segments added. The receiver is not modified.
func (p Path) Append(segments ...string) Path {
	next := make(Path, 0, len(p)+len(segments))
	next = append(next, p...)
	return append(next, segments...)
}

// DefaultTree returns the root every panel starts from: {open: true}.
func DefaultTree() Tree {
	return Tree{"open": true}
}

// New returns DefaultTree with overrides merged on top.
// Nested maps are merged key by key; the override wins on conflicts.
func New(overrides Tree) Tree {
	return Tree(merge(overrides, DefaultTree()))
}

// Get returns the value stored at path, or def when any segment is missing,
// an intermediate value is not a map, or the stored value is nil.
// Get never modifies the tree.
func (t Tree) Get(path Path, def any) any {
	if len(path) == 0 {
		return def
	}
	var node map[string]any = t
	for i, segment := range path {
		value, ok := node[segment]
		if !ok || value == nil {
			return def
		}
		if i == len(path)-1 {
			return value
		}
		child, ok := asMap(value)
		if !ok {
			return def
		}
		node = child
	}
	return def
}

// Set returns a new tree with value stored at path. Intermediate maps are
// created as needed; a non-map value sitting on the path is replaced.
// Setting an empty path returns the receiver unchanged.
func (t Tree) Set(path Path, value any) Tree {
	if len(path) == 0 {
		return t
	}
	return Tree(setIn(t, path, value))
}

// Equal reports whether two snapshots hold the same values.
func Equal(a, b Tree) bool {
	return reflect.DeepEqual(normalize(a), normalize(b))
}

func setIn(node map[string]any, path Path, value any) map[string]any {
	next := make(map[string]any, len(node)+1)
	for k, v := range node {
		next[k] = v
	}
	head := path[0]
	if len(path) == 1 {
		next[head] = value
		return next
	}
	child, _ := asMap(node[head])
	next[head] = setIn(child, path[1:], value)
	return next
}

// asMap accepts both Tree and the map[string]any values produced by
// yaml and json decoding.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return m, true
	default:
		return nil, false
	}
}

// merge lays strong over weak, cloning nested maps so the result shares
// nothing mutable with either input.
func merge(strong, weak map[string]any) map[string]any {
	result := make(map[string]any, len(strong)+len(weak))
	for k, v := range weak {
		result[k] = clone(v)
	}
	for k, v := range strong {
		sm, strongIsMap := asMap(v)
		wm, weakIsMap := asMap(result[k])
		if strongIsMap && weakIsMap {
			result[k] = merge(sm, wm)
			continue
		}
		result[k] = clone(v)
	}
	return result
}

func clone(v any) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = clone(child)
	}
	return out
}

func normalize(v any) any {
	m, ok := asMap(v)
	if !ok {
		return v
	}
	out := make(map[string]any, len(m))
	for k, child := range m {
		out[k] = normalize(child)
	}
	return out
}
