package jsast

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownKind is returned when a kind name has no Registry entry.
var ErrUnknownKind = errors.New("unknown AST kind")

// KindDef describes one AST node kind: its canonical, sorted property
// order. This is the AST node construction contract — the decoder builds
// nodes purely from a kind name and a property map, so the registry is the
// host AST library's constructor-by-kind-name surface.
type KindDef struct {
	Name string
	Properties []string
}

// Registry maps kind names to their KindDef, preserving insertion order,
// which is the order Kinds reports. The codec does not use this order for
// grammar-kind codes: those follow the discovery order of the grammar
// recovered from each encoded tree (internal/grammar).
type Registry struct {
	order []string
	defs map[string]KindDef
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]KindDef)}
}

// Register adds a kind with the given (unsorted) property names, sorting
// them into canonical order. Registering the same kind twice with a
// different property set panics — that is a programming error in the host
// AST library, not a runtime condition.
func (r *Registry) Register(kind string, properties ...string) {
	sorted := append([]string(nil), properties...)
	sort.Strings(sorted)

	if existing, ok := r.defs[kind]; ok {
		if !equalStrings(existing.Properties, sorted) {
			panic(fmt.Sprintf("jsast: kind %s re-registered with different properties", kind))
		}

		return
	}

	r.order = append(r.order, kind)
	r.defs[kind] = KindDef{Name: kind, Properties: sorted}
}

// Lookup returns the KindDef for kind, if registered.
func (r *Registry) Lookup(kind string) (KindDef, bool) {
	def, ok := r.defs[kind]

	return def, ok
}

// Kinds returns every registered kind name in insertion (canonical) order.
func (r *Registry) Kinds() []string {
	return append([]string(nil), r.order...)
}

// New constructs a Node of the given kind from a property map. This is the
// entry point the decoder uses to rebuild nodes from the wire format.
func (r *Registry) New(kind string, props map[string]Value) (Node, error) {
	def, ok := r.defs[kind]
	if !ok {
		return nil, fmt.Errorf("jsast: %w: %s", ErrUnknownKind, kind)
	}

	for _, name := range def.Properties {
		if _, present := props[name]; !present {
			return nil, fmt.Errorf("jsast: kind %s missing property %q", kind, name)
		}
	}

	return &object{kind: kind, order: def.Properties, props: props}, nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
