// Package jsast defines the typed JavaScript AST that the codec serializes.
//
// A Node is identified by a Kind string and exposes an ordered, fixed list
// of property names (see Registry). Property values are themselves Nodes,
// ordered Lists, or primitives: Null, Missing (the "hole" value, written ⊥
// in the wire format), Bool, Number, or String.
package jsast

// Value is the union of everything an AST property can hold: a Node, a
// List of values, or a primitive.
type Value interface {
	isValue()
}

type valueMarker struct{}

func (valueMarker) isValue() {}

// Null represents the JavaScript null literal.
type Null struct{ valueMarker }

// Missing represents an absent optional property (⊥ in the wire format).
type Missing struct{ valueMarker }

// Bool wraps a JavaScript boolean.
type Bool struct {
	valueMarker

	V bool
}

// Number wraps a JavaScript numeric literal as a float64, preserving the
// exact IEEE-754 bit pattern (including NaN payloads) through the codec.
type Number struct {
	valueMarker

	V float64
}

// String wraps a UTF-8 JavaScript string literal.
type String struct {
	valueMarker

	V string
}

// List is an ordered, possibly empty sequence of values. The encoder
// represents a List as a right fold of cons/nil terminals.
type List struct {
	valueMarker

	Items []Value
}

// NewList builds a List value from the given items, copying the slice so
// later mutation by the caller cannot alias the AST.
func NewList(items ...Value) List {
	if len(items) == 0 {
		return List{}
	}

	cp := make([]Value, len(items))
	copy(cp, items)

	return List{Items: cp}
}
