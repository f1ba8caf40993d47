// Package inspector is the smartap-inspect terminal application.
//
// The screen is split in two. The left pane lists targets: devices given
// on the command line or found by an mDNS scan, and saved configuration
// files. The right pane is a panel.Panel bound to the selection. Moving
// the cursor selects one target; marking several with space shows the
// multiple-selection placeholder instead of the groups.
//
// Each target holds a deviceconfig.Draft. Panel entries read the draft
// through the panel element and their setters edit it in place. After
// every update pass the app rebuilds the group definitions, hands them to
// the panel with SetProps and fires the draft's field errors on the
// panel's event bus. Errors received from the error feed are merged on
// top and win over local ones.
//
// Keys go to the device list or to the panel, never both. In the panel,
// ctrl+s applies the draft (a POST to the device, or a rewrite of the
// file) and ctrl+r discards it.
//
// # Concurrency
//
// All state changes happen in Update. Device requests run as tea.Cmd
// functions; the discovery scan and the error feed server run in their
// own goroutines and deliver results with tea.Program.Send.
package inspector
