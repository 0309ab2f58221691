package props

import "strings"

// CompositeSeparator joins member keys into a composite key for a PropGroup,
// as specified in spec.md §3 and §6. It is U+222A, UNION, chosen because it
// cannot appear in a key produced by any of the standard source types.
const CompositeSeparator = "∪"

// CompositeKey concatenates member keys with CompositeSeparator, in the order
// the props were composed.
func CompositeKey(keys ...string) string {
	return strings.Join(keys, CompositeSeparator)
}

// absent is the sentinel Value meaning "no mapping for this key in this
// layer", distinct from the empty string (spec.md §3).
type absentType struct{}

// Absent names the "no mapping" sentinel, as distinct from "". KeyOwnership.Apply
// and the lookups take and return its Value form, AbsentValue(), not this
// variable.
var Absent = absentType{}

// Value is either a string or the Absent sentinel.
type Value struct {
	s      string
	absent bool
}

// StringValue wraps a concrete string value.
func StringValue(s string) Value { return Value{s: s} }

// AbsentValue is the Value form of the Absent sentinel.
func AbsentValue() Value { return Value{absent: true} }

// IsAbsent reports whether v represents "no mapping".
func (v Value) IsAbsent() bool { return v.absent }

// String returns the underlying string, or "" if v IsAbsent.
func (v Value) String() string { return v.s }

// Equal compares two Values for the purposes of the "setting an equal
// (value, layer) pair is a no-op" rule in spec.md §8.
func (v Value) Equal(o Value) bool {
	return v.absent == o.absent && (v.absent || v.s == o.s)
}
