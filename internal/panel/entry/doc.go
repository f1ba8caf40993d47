// Package entry provides the panel's editable controls.
//
// Checkbox commits on every toggle. TextField commits typed text after a
// debounce interval, and only if the validator accepts it; a rejected
// value stays on screen with its message instead of reverting.
//
// Entries read the element through a GetValue function and write through
// SetValue. They never modify the element themselves.
package entry
