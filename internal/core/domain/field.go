package domain

// Sentinel is the literal written in place of an absent value.
// It is reserved syntax in the output format.
const Sentinel = " =||= "

// Field is an optional string value of an output column.
// The zero value is absent.
type Field struct {
	value   string
	present bool
}

// Value returns a present field holding s. An empty string is still present.
func Value(s string) Field {
	return Field{value: s, present: true}
}

// Absent returns a field with no value.
func Absent() Field {
	return Field{}
}

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) {
	return f.value, f.present
}

// IsAbsent reports whether the field has no value.
func (f Field) IsAbsent() bool {
	return !f.present
}

// String renders the field, substituting Sentinel for an absent value.
// Use a sink for output; String is meant for logs and tests.
func (f Field) String() string {
	if !f.present {
		return Sentinel
	}
	return f.value
}
