package layout

import "testing"

func TestStore_SetNotifies(t *testing.T) {
	var snapshots []Tree
	store := NewStore(nil, func(tree Tree) {
		snapshots = append(snapshots, tree)
	})

	store.Set(Path{"groups", "outlets", "open"}, true)
	store.Set(Path{"groups", "outlets", "open"}, false)

	if len(snapshots) != 2 {
		t.Fatalf("onChange called %d times, want 2", len(snapshots))
	}
	if got := snapshots[0].Get(Path{"groups", "outlets", "open"}, nil); got != true {
		t.Errorf("first snapshot = %v, want true", got)
	}
	if got := snapshots[1].Get(Path{"groups", "outlets", "open"}, nil); got != false {
		t.Errorf("second snapshot = %v, want false", got)
	}
	if !Equal(snapshots[1], store.Snapshot()) {
		t.Error("last snapshot does not match store")
	}
}

func TestStore_GetBool(t *testing.T) {
	store := NewStore(Tree{"label": "not a bool"}, nil)

	if got := store.GetBool(Path{"open"}, false); !got {
		t.Errorf("GetBool(open) = %v, want true", got)
	}
	if got := store.GetBool(Path{"label"}, true); !got {
		t.Errorf("GetBool(label) = %v, want default true", got)
	}
	if got := store.GetBool(Path{"groups", "x", "open"}, false); got {
		t.Errorf("GetBool(missing) = %v, want false", got)
	}
}

func TestStore_EmptyPathIgnored(t *testing.T) {
	calls := 0
	store := NewStore(nil, func(Tree) { calls++ })

	store.Set(nil, true)

	if calls != 0 {
		t.Errorf("onChange called %d times for empty path, want 0", calls)
	}
}

func TestStore_NilCallback(t *testing.T) {
	store := NewStore(nil, nil)
	store.Set(Path{"open"}, false)

	if store.GetBool(Path{"open"}, true) {
		t.Error("GetBool(open) = true after Set(false)")
	}
}
