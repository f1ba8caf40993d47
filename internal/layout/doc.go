// Package layout stores path-addressable presentation state for the
// properties panel, such as which groups are open.
//
// A layout is a tree of nested maps addressed by a Path:
//
//	store := layout.NewStore(nil, nil)
//	store.Set(layout.Path{"groups", "server", "open"}, true)
//	open := store.GetBool(layout.Path{"groups", "server", "open"}, false)
//
// Reads of paths that were never written return the caller's default and
// do not create anything. Writes copy the maps along the written path and
// produce a new root, so a snapshot handed to a callback stays valid after
// later writes.
//
// The package does not persist anything. Hosts that want the layout to
// survive a restart store the snapshots delivered to the change callback.
package layout
