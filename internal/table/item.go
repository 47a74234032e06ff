package table

import "reflect"

// Item is a caller-supplied record. Identity (not value) is what the table
// tracks, so the same item must not appear twice in one items list.
type Item interface {
	Value(prop string) any
}

// Setter is implemented by items whose fields renderers may change.
type Setter interface {
	SetValue(prop string, v any)
}

// Record is the stock Item: a map from prop name to value.
type Record map[string]any

// Value returns the field stored under prop, or nil.
func (r Record) Value(prop string) any { return r[prop] }

// SetValue stores v under prop.
func (r Record) SetValue(prop string, v any) { r[prop] = v }

// sameItem reports whether a and b are the same item. Reference kinds are
// compared by address so map-backed records never hit a runtime panic.
func sameItem(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}
