package chainz

import "reflect"

// isAbsent reports whether a produced value counts as absent: a nil
// interface, or a nil value of a nilable kind. Non-nilable values
// (numbers, strings, structs) are always present, including their zero
// values.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
