package layout

import (
	"reflect"
	"testing"
)

func TestNew_DefaultRoot(t *testing.T) {
	tree := New(nil)

	if got := tree.Get(Path{"open"}, false); got != true {
		t.Errorf("Get(open) = %v, want true", got)
	}
}

func TestNew_MergesOverrides(t *testing.T) {
	tree := New(Tree{
		"open": false,
		"groups": map[string]any{
			"server": map[string]any{"open": true},
		},
	})

	if got := tree.Get(Path{"open"}, true); got != false {
		t.Errorf("Get(open) = %v, want false", got)
	}
	if got := tree.Get(Path{"groups", "server", "open"}, false); got != true {
		t.Errorf("Get(groups.server.open) = %v, want true", got)
	}
}

func TestNew_DoesNotAliasOverrides(t *testing.T) {
	groups := map[string]any{"outlets": map[string]any{"open": true}}
	tree := New(Tree{"groups": groups})

	groups["outlets"].(map[string]any)["open"] = false

	if got := tree.Get(Path{"groups", "outlets", "open"}, false); got != true {
		t.Errorf("tree changed through caller map: got %v, want true", got)
	}
}

func TestSetThenGet(t *testing.T) {
	tests := []struct {
		name  string
		seed  Tree
		path  Path
		value any
	}{
		{name: "top level", path: Path{"open"}, value: false},
		{name: "fresh nested path", path: Path{"groups", "timers", "open"}, value: true},
		{name: "deep fresh path", path: Path{"a", "b", "c", "d", "e"}, value: "x"},
		{name: "overwrite scalar on path", seed: Tree{"groups": "flat"}, path: Path{"groups", "io", "open"}, value: true},
		{name: "numeric segment", path: Path{"groups", "list", "items", "0", "open"}, value: false},
		{name: "map value", path: Path{"panel"}, value: map[string]any{"width": 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := New(tt.seed)
			next := tree.Set(tt.path, tt.value)

			if got := next.Get(tt.path, nil); !reflect.DeepEqual(got, tt.value) {
				t.Errorf("Get(%v) = %v, want %v", tt.path, got, tt.value)
			}
		})
	}
}

func TestGet_MissingReturnsDefault(t *testing.T) {
	tree := New(Tree{"groups": map[string]any{"server": map[string]any{"open": true}}})
	before := New(Tree{"groups": map[string]any{"server": map[string]any{"open": true}}})

	tests := []struct {
		name string
		path Path
		def  any
	}{
		{name: "missing leaf", path: Path{"groups", "server", "collapsed"}, def: "fallback"},
		{name: "missing branch", path: Path{"groups", "wifi", "open"}, def: false},
		{name: "through scalar", path: Path{"open", "nested"}, def: 42},
		{name: "empty path", path: Path{}, def: "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.Get(tt.path, tt.def); got != tt.def {
				t.Errorf("Get(%v) = %v, want %v", tt.path, got, tt.def)
			}
		})
	}

	if !Equal(tree, before) {
		t.Errorf("Get mutated the tree: %v", tree)
	}
}

func TestSet_ProducesNewSnapshot(t *testing.T) {
	original := New(Tree{"groups": map[string]any{"server": map[string]any{"open": false}}})
	next := original.Set(Path{"groups", "server", "open"}, true)

	if got := original.Get(Path{"groups", "server", "open"}, nil); got != false {
		t.Errorf("original changed: groups.server.open = %v, want false", got)
	}
	if got := next.Get(Path{"groups", "server", "open"}, nil); got != true {
		t.Errorf("next groups.server.open = %v, want true", got)
	}
}

func TestSet_SharesUntouchedBranches(t *testing.T) {
	wifi := map[string]any{"open": true}
	original := Tree{"groups": map[string]any{"wifi": wifi, "server": map[string]any{"open": false}}}
	next := original.Set(Path{"groups", "server", "open"}, true)

	nextWifi := next["groups"].(map[string]any)["wifi"].(map[string]any)
	if reflect.ValueOf(nextWifi).Pointer() != reflect.ValueOf(wifi).Pointer() {
		t.Error("untouched branch was copied, want shared")
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in   string
		want Path
	}{
		{in: "groups.timers.open", want: Path{"groups", "timers", "open"}},
		{in: "open", want: Path{"open"}},
		{in: ".a..b.", want: Path{"a", "b"}},
		{in: "", want: Path{}},
	}

	for _, tt := range tests {
		got := ParsePath(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParsePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPath_AppendDoesNotAlias(t *testing.T) {
	base := make(Path, 0, 8)
	base = append(base, "groups")

	a := base.Append("a")
	b := base.Append("b")

	if a.String() != "groups.a" || b.String() != "groups.b" {
		t.Errorf("Append aliased: a=%v b=%v", a, b)
	}
}
