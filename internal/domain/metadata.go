package domain

import (
	"fmt"
	"maps"
	"slices"
)

// Key is a typed key for Metadata. The type parameter ties each key to the
// type of value stored under it so reads need no type assertion.
type Key[T any] struct{ name string }

// NewKey creates a new Key with the specified name and type.
func NewKey[T any](name string) Key[T] { return Key[T]{name: name} }

// Name returns the key's string form.
func (k Key[T]) Name() string { return k.name }

// Metadata keys set by the guard before each validator call.
var (
	// KeyField is the name of the output field being validated.
	KeyField = Key[string]{"field"}

	// KeyGuardName is the name of the guard running the validation.
	KeyGuardName = Key[string]{"guard"}

	// KeyValidatorID is the registry identifier of the running validator.
	KeyValidatorID = Key[string]{"validator"}
)

// Metadata is opaque host-provided context passed alongside each value.
// Validators treat it as passthrough only. It is copy-on-write: With
// returns a new Metadata and never alters the receiver, so one instance
// can be shared across goroutines.
type Metadata struct {
	data map[string]any
}

// NewMetadata returns empty Metadata.
func NewMetadata() Metadata { return Metadata{} }

// MetadataFrom copies a plain map into Metadata.
func MetadataFrom(m map[string]any) Metadata {
	return Metadata{data: maps.Clone(m)}
}

// Get reads a typed value. The boolean is false when the key is absent or
// holds a value of a different type.
func Get[T any](m Metadata, key Key[T]) (T, bool) {
	v, ok := m.data[key.name].(T)
	return v, ok
}

// With returns a copy of m with key set to value.
func With[T any](m Metadata, key Key[T], value T) Metadata {
	return m.WithRaw(key.name, value)
}

// WithRaw returns a copy of m with name set to value.
func (m Metadata) WithRaw(name string, value any) Metadata {
	data := make(map[string]any, len(m.data)+1)
	maps.Copy(data, m.data)
	data[name] = value
	return Metadata{data: data}
}

// GetRaw reads an untyped value.
func (m Metadata) GetRaw(name string) (any, bool) {
	v, ok := m.data[name]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (m Metadata) Keys() []string {
	return slices.Sorted(maps.Keys(m.data))
}

// Len returns the number of stored entries.
func (m Metadata) Len() int { return len(m.data) }

// String returns a string representation for debugging.
func (m Metadata) String() string {
	return fmt.Sprintf("Metadata%v", m.data)
}
