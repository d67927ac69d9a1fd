package codec

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/jsastcodec/internal/grammar"
	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
)

// errUnknownKind is raised when an AST node's kind (or one of its declared
// properties) is absent from the grammar recovered from the same tree —
// normally unreachable, since the encoder recovers the grammar from the
// exact tree it then walks, but guarded against rather than assumed.
var errUnknownKind = errors.New("codec: kind absent from recovered grammar")

func buildTree(pool *rtree.Pool, arena *rtree.Arena, schema *grammar.Schema, v jsast.Value) (rtree.NodeID, error) {
	switch val := v.(type) {
	case jsast.Null:
		return arena.Alloc(pool.Builtin(rtree.TermNull), nil), nil
	case jsast.Missing:
		return arena.Alloc(pool.Builtin(rtree.TermMissing), nil), nil
	case jsast.Bool:
		if val.V {
			return arena.Alloc(pool.Builtin(rtree.TermTrue), nil), nil
		}

		return arena.Alloc(pool.Builtin(rtree.TermFalse), nil), nil
	case jsast.String:
		return arena.Alloc(pool.String(val.V), nil), nil
	case jsast.Number:
		return arena.Alloc(pool.Number(val.V), nil), nil
	case jsast.List:
		return buildList(pool, arena, schema, val)
	case jsast.Node:
		return buildNode(pool, arena, schema, val)
	default:
		return rtree.NilID, fmt.Errorf("%w: %T", grammar.ErrUnsupportedPrimitive, v)
	}
}

func buildList(pool *rtree.Pool, arena *rtree.Arena, schema *grammar.Schema, list jsast.List) (rtree.NodeID, error) {
	tail := arena.Alloc(pool.Builtin(rtree.TermNil), nil)

	for i := len(list.Items) - 1; i >= 0; i-- {
		head, err := buildTree(pool, arena, schema, list.Items[i])
		if err != nil {
			return rtree.NilID, err
		}

		tail = arena.Alloc(pool.Builtin(rtree.TermCons), []rtree.NodeID{head, tail})
	}

	return tail, nil
}

func buildNode(pool *rtree.Pool, arena *rtree.Arena, schema *grammar.Schema, node jsast.Node) (rtree.NodeID, error) {
	entry, ok := schema.Lookup(node.Kind())
	if !ok {
		return rtree.NilID, fmt.Errorf("%w: %s", errUnknownKind, node.Kind())
	}

	sym := pool.Kind(node.Kind(), len(entry.Properties))

	children := make([]rtree.NodeID, len(entry.Properties))

	for i, name := range entry.Properties {
		propVal, ok := node.Property(name)
		if !ok {
			return rtree.NilID, fmt.Errorf("%w: %s.%s", errUnknownKind, node.Kind(), name)
		}

		id, err := buildTree(pool, arena, schema, propVal)
		if err != nil {
			return rtree.NilID, err
		}

		children[i] = id
	}

	return arena.Alloc(sym, children), nil
}
