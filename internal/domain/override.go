package domain

import (
	"bytes"
	"encoding/json"
)

// Override is a tagged optional for per-product rule overrides: either the
// attachment inherits the group default, or it pins an explicit value.
type Override[T any] struct {
	value T
	set   bool
}

// Set returns an override pinned to v.
func Set[T any](v T) Override[T] {
	return Override[T]{value: v, set: true}
}

// Inherit returns an override that falls back to the group default.
func Inherit[T any]() Override[T] {
	return Override[T]{}
}

func (o Override[T]) IsSet() bool {
	return o.set
}

// Or resolves the override against the group default.
func (o Override[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

func (o Override[T]) Value() (T, bool) {
	return o.value, o.set
}

var jsonNull = []byte("null")

// MarshalJSON encodes an inherited override as null, mirroring the
// nullable-column representation in the catalog tables.
func (o Override[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return jsonNull, nil
	}
	return json.Marshal(o.value)
}

func (o *Override[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*o = Override[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Override[T]{value: v, set: true}
	return nil
}
