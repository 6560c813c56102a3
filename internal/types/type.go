// Package types implements the type system of the swarm language.
// It has no dependency on the syntax tree beyond positions.
package types

// Type is the interface implemented by all types.
type Type interface {
	// Underlying returns the underlying type.
	// For Named types, returns the type it names.
	// For all other types, returns the receiver.
	Underlying() Type

	// String returns a human-readable representation of the type.
	String() string

	aType()
}

type typ struct{}

func (typ) aType() {}
