package panel

import "reflect"

// Element is the domain object a panel is bound to. The panel never
// modifies it; entries read it through their getters.
//
// nil means nothing is selected. A slice or array means several objects
// are selected at once.
type Element = any

// IsEmpty reports whether el represents an empty selection.
func IsEmpty(el Element) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// IsMultiple reports whether el is a multi-selection.
func IsMultiple(el Element) bool {
	if IsEmpty(el) {
		return false
	}
	switch reflect.ValueOf(el).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	return false
}

// SameElement reports whether a and b are the same selection. Pointers,
// maps and slices compare by identity; other comparable values by ==.
func SameElement(a, b Element) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return IsEmpty(a) && IsEmpty(b)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
