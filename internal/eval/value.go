package eval

import "fmt"

// Value pairs a raw parameter value with an optional human-readable
// description. Configured objects rarely stringify usefully, so sweep
// output uses the description when one is present and falls back to the
// value's natural string form otherwise.
type Value struct {
	raw  any
	desc string
}

// NewValue wraps v as a Value. If v is already a Value, the wrapped raw
// value and description are copied through.
func NewValue(v any) Value {
	if val, ok := v.(Value); ok {
		return val
	}
	return Value{raw: v}
}

// Described wraps v as a Value with an explicit description. A non-empty
// desc overrides the description of a source Value; an empty desc keeps it.
func Described(v any, desc string) Value {
	val := NewValue(v)
	if desc != "" {
		val.desc = desc
	}
	return val
}

// Raw returns the wrapped value.
func (v Value) Raw() any {
	return v.raw
}

// String returns the description if present, else the value's natural
// string form.
func (v Value) String() string {
	if v.desc != "" {
		return v.desc
	}
	return fmt.Sprint(v.raw)
}
