package service

import (
	"bytes"
	"encoding/json"
)

// Field is one member of a partial update. It tells apart a key that was left
// out (Set false), a key sent as null or "" (Null), and a key with a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		f.Null = true
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// HasValue reports whether the patch assigns a non-null value.
func (f Field[T]) HasValue() bool {
	return f.Set && !f.Null
}

// Cleared reports whether the patch explicitly clears the field.
func (f Field[T]) Cleared() bool {
	return f.Set && f.Null
}

// Of returns a Field holding v, for building patches in code.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a Field that clears its target.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}
