package jsast

import "fmt"

// Node is an AST node: a Kind tag plus an ordered, fixed set of named
// properties. Node satisfies Value so it can appear as a property of
// another node or as a List element.
type Node interface {
	Value

	// Kind returns the node's runtime type tag, e.g. "Script" or
	// "IdentifierExpression".
	Kind() string

	// PropertyNames returns this node's property names in the kind's
	// canonical (sorted) order.
	PropertyNames() []string

	// Property returns the value bound to name, and whether name is a
	// property of this node's kind.
	Property(name string) (Value, bool)
}

// object is the concrete Node implementation shared by every kind. Kinds
// are distinguished only by their kind tag and canonical property order,
// both of which live in the Registry — this models a kind as "a string tag
// with an ordered property list" rather than a closed enum of Go types.
type object struct {
	valueMarker

	kind string
	order []string
	props map[string]Value
}

// newObject constructs a Node of the given kind from a property map,
// looking up the canonical property order in the DefaultRegistry. The
// typed constructors in kinds.go go through it. Registry.New, the
// decoder's "construct by kind name" path, does its own lookup against its
// receiver and, unlike newObject, does not reject extra properties.
func newObject(kind string, props map[string]Value) (Node, error) {
	def, ok := DefaultRegistry.Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("jsast: %w: %s", ErrUnknownKind, kind)
	}

	for _, name := range def.Properties {
		if _, present := props[name]; !present {
			return nil, fmt.Errorf("jsast: kind %s missing property %q", kind, name)
		}
	}

	if len(props) != len(def.Properties) {
		return nil, fmt.Errorf("jsast: kind %s got %d properties, want %d", kind, len(props), len(def.Properties))
	}

	return &object{kind: kind, order: def.Properties, props: props}, nil
}

func (n *object) Kind() string { return n.kind }

func (n *object) PropertyNames() []string { return n.order }

func (n *object) Property(name string) (Value, bool) {
	v, ok := n.props[name]

	return v, ok
}
