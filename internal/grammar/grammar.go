// Package grammar recovers a per-AST type schema from a concrete tree:
// for every kind encountered, its sorted property-name list, enforcing
// that every instance of a kind shares the same shape.
package grammar

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
)

var (
	// ErrInconsistentShape is raised when two instances of the same kind
	// expose different property sets.
	ErrInconsistentShape = errors.New("grammar: inconsistent shape for kind")
	// ErrUnsupportedPrimitive is raised for a value that is none of the
	// supported primitive classes.
	ErrUnsupportedPrimitive = errors.New("grammar: unsupported primitive value")
	// ErrMalformedHeader is raised when a decoded grammar document does not
	// match the on-wire shape.
	ErrMalformedHeader = errors.New("grammar: malformed header document")
)

const typeDiscriminator = "type"

// KindEntry is one grammar rule.
type KindEntry struct {
	Kind string `json:"kind"`
	Properties []string `json:"properties"`
}

// Schema is an ordered kind -> sorted-property-list mapping. Insertion
// order is preserved and becomes the canonical grammar-kind code order.
type Schema struct {
	order []string
	entries map[string]KindEntry
}

// NewSchema creates an empty schema.
func NewSchema() *Schema {
	return &Schema{entries: make(map[string]KindEntry)}
}

// Kinds returns every recovered kind in discovery order.
func (s *Schema) Kinds() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Lookup returns the recovered entry for kind, if any.
func (s *Schema) Lookup(kind string) (KindEntry, bool) {
	e, ok := s.entries[kind]

	return e, ok
}

// Len reports the number of distinct kinds recovered.
func (s *Schema) Len() int { return len(s.order) }

func (s *Schema) observe(kind string, properties []string) error {
	sorted := append([]string(nil), properties...)
	sort.Strings(sorted)

	existing, ok := s.entries[kind]
	if !ok {
		s.entries[kind] = KindEntry{Kind: kind, Properties: sorted}
		s.order = append(s.order, kind)

		return nil
	}

	if !equalStrings(existing.Properties, sorted) {
		return fmt.Errorf("%w: kind %q: expected %v, got %v", ErrInconsistentShape, kind, existing.Properties, sorted)
	}

	return nil
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

// Recover walks root and every node reachable from it, deriving the
// grammar schema. root itself must be a jsast.Node.
func Recover(root jsast.Node) (*Schema, error) {
	s := NewSchema()
	if err := walk(s, root); err != nil {
		return nil, err
	}

	return s, nil
}

func walk(s *Schema, v jsast.Value) error {
	switch val := v.(type) {
	case jsast.Node:
		names := val.PropertyNames()

		shape := make([]string, 0, len(names))

		for _, name := range names {
			if name == typeDiscriminator {
				continue
			}

			shape = append(shape, name)
		}

		if err := s.observe(val.Kind(), shape); err != nil {
			return err
		}

		for _, name := range names {
			child, ok := val.Property(name)
			if !ok {
				continue
			}

			if err := walk(s, child); err != nil {
				return err
			}
		}

		return nil
	case jsast.List:
		for _, item := range val.Items {
			if err := walk(s, item); err != nil {
				return err
			}
		}

		return nil
	case jsast.Null, jsast.Missing, jsast.Bool, jsast.Number, jsast.String:
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedPrimitive, v)
	}
}

// MarshalJSON emits the schema as an ordered array of {kind, properties}
// objects rather than a JSON object, so kind order on the wire is the
// schema's own discovery order and not Go's (or any decoder's) incidental
// map-key ordering.
func (s *Schema) MarshalJSON() ([]byte, error) {
	out := make([]KindEntry, len(s.order))
	for i, kind := range s.order {
		out[i] = s.entries[kind]
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("grammar: marshal schema: %w", err)
	}

	return data, nil
}

// UnmarshalJSON parses a schema document previously produced by MarshalJSON.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var entries []KindEntry

	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}

	s.entries = make(map[string]KindEntry, len(entries))
	s.order = make([]string, 0, len(entries))

	for _, e := range entries {
		s.entries[e.Kind] = e
		s.order = append(s.order, e.Kind)
	}

	return nil
}
