package models

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes an absent or null JSON value from a present one.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value, o.Set = zero, false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

// Filled reports whether o is set to something other than T's zero value.
func Filled[T comparable](o Optional[T]) bool {
	var zero T
	return o.Set && o.Value != zero
}

// FilledSlice reports whether o is set to a non-empty slice.
func FilledSlice[T any](o Optional[[]T]) bool {
	return o.Set && len(o.Value) > 0
}
