// Package panel implements a properties panel: a collapsible inspector
// bound to a selected domain object, built as a Bubble Tea component.
//
// Hosts describe what to show with GroupDefinition and
// ListGroupDefinition values holding entries (see package entry). The
// panel tracks which groups are open in a layout store, shows validation
// errors pushed over an event bus next to the entries they name, and
// marks groups whose entries show data.
//
// # Selection
//
// The panel renders one of three modes, checked in order:
//
//   - ModeEmpty: no element and a PlaceholderProvider is set
//   - ModeMultiple: the element is a slice or array and a PlaceholderProvider is set
//   - ModeNormal: header and groups
//
// Passing a different element to SetProps disposes every entry,
// including pending commits, and mounts fresh ones.
//
// # Services
//
// Each mount builds one Services value and hands it to every group and
// entry. Entries use it to look up their error and description and to
// record commits. There is no global state.
//
// # Events
//
// With an event bus, the panel listens for:
//
//	propertiesPanel.setErrors  eventbus.SetErrors  replaces all global errors
//	propertiesPanel.showEntry  eventbus.ShowEntry  opens and focuses an entry
//
// Both are ignored without a bus. Handlers touch panel state, so the bus
// must be fired from the host's Update.
package panel
