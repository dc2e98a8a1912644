// Package patch provides an optional-field type for partial update payloads.
//
// JSON decoding into plain pointers cannot tell an absent field from one
// explicitly set to null, but nullable columns such as a contribution's notes
// or an expense's event reference need both: absent means "leave unchanged",
// null means "clear". Field records which of the three states the payload
// carried.
package patch

import "encoding/json"

// Field wraps a value in a partial update payload.
// Set reports whether the field appeared in the payload at all;
// Valid reports whether it carried a non-null value.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked for fields
// present in the payload, so Set is always true here; absent fields keep
// the zero Field.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler for symmetry in tests and logs.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Of returns a Field carrying the given value.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}
