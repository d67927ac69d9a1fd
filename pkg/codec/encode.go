package codec

import (
	"errors"
	"io"

	"github.com/Sumatoshi-tech/jsastcodec/internal/grammar"
	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
	"github.com/Sumatoshi-tech/jsastcodec/internal/symspace"
	"github.com/Sumatoshi-tech/jsastcodec/internal/treerepair"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/varint"
)

// Encode writes root to sink using the grammar-compressed binary format.
// root must be a Script or Module node. It returns the number of bytes
// written.
func Encode(root jsast.Node, sink io.Writer) (int64, error) {
	if root.Kind() != "Script" && root.Kind() != "Module" {
		return 0, newError(UnexpectedRoot, "encode", nil)
	}

	schema, err := grammar.Recover(root)
	if err != nil {
		return 0, wrapGrammarErr("encode.grammar", err)
	}

	pool := rtree.NewPool()
	arena := rtree.NewArena()

	rootID, err := buildTree(pool, arena, schema, root)
	if err != nil {
		return 0, wrapBuildErr("encode.build", err)
	}

	result := treerepair.Mine(&rtree.Tree{Arena: arena, Root: rootID})

	ordered, buckets := groupMetaRulesByRank(result.Productions)
	paramCount := maxRank(ordered)

	strings := pool.Strings()
	numbers := pool.Numbers()
	kinds := schema.Kinds()

	space := symspace.New(paramCount, buckets, len(kinds), len(strings), len(numbers))
	table := buildCodeTable(space, ordered, kinds, strings, numbers)

	w := varint.NewWriter(sink)

	if err := writeHeader(w, schema, paramCount, buckets, strings, numbers); err != nil {
		return w.Written(), err
	}

	for _, prod := range ordered {
		if err := emitPreorder(w, result.BodyArena, prod.Body, table); err != nil {
			return w.Written(), err
		}
	}

	if err := emitPreorder(w, result.Tree.Arena, result.Tree.Root, table); err != nil {
		return w.Written(), err
	}

	if err := w.Flush(); err != nil {
		return w.Written(), wrapIOErr("encode.flush", err)
	}

	return w.Written(), nil
}

func writeHeader(w *varint.Writer, schema *grammar.Schema, paramCount int, buckets []symspace.RankBucket, strings, numbers []*rtree.Symbol) error {
	grammarJSON, err := schema.MarshalJSON()
	if err != nil {
		return newError(InternalInvariant, "encode.header", err)
	}

	if err := w.WriteUvarint(uint64(len(grammarJSON))); err != nil {
		return wrapIOErr("encode.header", err)
	}

	if err := w.WriteRaw(grammarJSON); err != nil {
		return wrapIOErr("encode.header", err)
	}

	if err := w.WriteUvarint(uint64(paramCount)); err != nil {
		return wrapIOErr("encode.header", err)
	}

	if err := w.WriteUvarint(symspace.BuiltinCount); err != nil {
		return wrapIOErr("encode.header", err)
	}

	if err := writeHistogram(w, buckets); err != nil {
		return err
	}

	if err := writeStringPool(w, strings); err != nil {
		return err
	}

	return writeNumberPool(w, numbers)
}

func writeHistogram(w *varint.Writer, buckets []symspace.RankBucket) error {
	if err := w.WriteUvarint(uint64(len(buckets) - 1)); err != nil {
		return wrapIOErr("encode.histogram", err)
	}

	if err := w.WriteUvarint(uint64(buckets[0].Count)); err != nil {
		return wrapIOErr("encode.histogram", err)
	}

	prevRank := buckets[0].Rank

	for _, b := range buckets[1:] {
		delta := b.Rank - prevRank

		if err := w.WriteUvarint(uint64(delta - 1)); err != nil {
			return wrapIOErr("encode.histogram", err)
		}

		if err := w.WriteUvarint(uint64(b.Count)); err != nil {
			return wrapIOErr("encode.histogram", err)
		}

		prevRank = b.Rank
	}

	return nil
}

func writeStringPool(w *varint.Writer, strings []*rtree.Symbol) error {
	if err := w.WriteUvarint(uint64(len(strings))); err != nil {
		return wrapIOErr("encode.strings", err)
	}

	for _, s := range strings {
		if err := w.WriteUvarint(uint64(len(s.StrVal))); err != nil {
			return wrapIOErr("encode.strings", err)
		}
	}

	for _, s := range strings {
		if err := w.WriteRaw([]byte(s.StrVal)); err != nil {
			return wrapIOErr("encode.strings", err)
		}
	}

	return nil
}

func writeNumberPool(w *varint.Writer, numbers []*rtree.Symbol) error {
	if err := w.WriteUvarint(uint64(len(numbers))); err != nil {
		return wrapIOErr("encode.numbers", err)
	}

	for _, n := range numbers {
		if err := w.WriteFloat64(n.NumVal); err != nil {
			return wrapIOErr("encode.numbers", err)
		}
	}

	return nil
}

func emitPreorder(w *varint.Writer, arena *rtree.Arena, id rtree.NodeID, table *codeTable) error {
	node := arena.Get(id)

	code, err := table.code(node.Sym)
	if err != nil {
		return err
	}

	if err := w.WriteUvarint(uint64(code)); err != nil {
		return wrapIOErr("encode.body", err)
	}

	for _, c := range node.Children {
		if err := emitPreorder(w, arena, c, table); err != nil {
			return err
		}
	}

	return nil
}

func wrapGrammarErr(op string, err error) error {
	switch {
	case errors.Is(err, grammar.ErrInconsistentShape):
		return newError(InconsistentShape, op, err)
	case errors.Is(err, grammar.ErrUnsupportedPrimitive):
		return newError(UnsupportedPrimitive, op, err)
	case errors.Is(err, grammar.ErrMalformedHeader):
		// A malformed grammar header describes an inconsistent or
		// ill-shaped set of kinds; there is no dedicated ErrorKind for it,
		// so it is folded into InconsistentShape.
		return newError(InconsistentShape, op, err)
	default:
		return newError(InternalInvariant, op, err)
	}
}

func wrapBuildErr(op string, err error) error {
	switch {
	case errors.Is(err, errUnknownKind):
		return newError(UnknownKind, op, err)
	case errors.Is(err, grammar.ErrUnsupportedPrimitive):
		return newError(UnsupportedPrimitive, op, err)
	default:
		return newError(InternalInvariant, op, err)
	}
}

func wrapIOErr(op string, err error) error {
	switch {
	case errors.Is(err, varint.ErrTruncated):
		return newError(Truncated, op, err)
	case errors.Is(err, varint.ErrOverflow):
		return newError(Overflow, op, err)
	default:
		return newError(InternalInvariant, op, err)
	}
}
