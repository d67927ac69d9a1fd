package codec

import (
	"errors"
	"io"

	"github.com/Sumatoshi-tech/jsastcodec/internal/grammar"
	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
	"github.com/Sumatoshi-tech/jsastcodec/internal/symspace"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/jsast"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/varint"
)

// token is one buffered preorder position: a classified code plus its
// already-buffered children. Buffering the whole body before replay is
// what makes the parameter/meta-rule recursion of replayValue possible —
// a meta-rule's body is walked once per call site, with a fresh actuals
// scope each time, so it cannot be consumed destructively off the wire.
type token struct {
	partition symspace.Partition
	index int
	children []*token
}

// decoderState is the fixed, read-only context replayValue closes over:
// everything needed to resolve a code except the actuals in scope at the
// current call site.
type decoderState struct {
	schema *grammar.Schema
	kindsOrder []string
	strings []string
	numbers []float64
	bodies []*token
}

// Decode reverses Encode: it reads the header, buffers every meta-rule
// body and the start tree, then replays the start tree into a jsast.Value
// tree.
func Decode(src io.Reader) (jsast.Node, error) {
	r := varint.NewReader(src)

	grammarLen, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.header", err)
	}

	grammarJSON, err := r.ReadRaw(int(grammarLen))
	if err != nil {
		return nil, wrapIOErr("decode.header", err)
	}

	if err := grammar.ValidateHeader(grammarJSON); err != nil {
		return nil, wrapGrammarErr("decode.header", err)
	}

	schema := grammar.NewSchema()
	if err := schema.UnmarshalJSON(grammarJSON); err != nil {
		return nil, wrapGrammarErr("decode.header", err)
	}

	paramCount64, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.header", err)
	}

	builtinCount, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.header", err)
	}

	if builtinCount != symspace.BuiltinCount {
		return nil, newError(VersionMismatch, "decode.header", nil)
	}

	buckets, err := readHistogram(r)
	if err != nil {
		return nil, err
	}

	strings, err := readStringPool(r)
	if err != nil {
		return nil, err
	}

	numbers, err := readNumberPool(r)
	if err != nil {
		return nil, err
	}

	kindsOrder := schema.Kinds()
	space := symspace.New(int(paramCount64), buckets, len(kindsOrder), len(strings), len(numbers))

	bodies := make([]*token, space.MetaRuleCount())

	for i := range bodies {
		tok, err := readToken(r, space, schema, kindsOrder)
		if err != nil {
			return nil, err
		}

		bodies[i] = tok
	}

	startTok, err := readToken(r, space, schema, kindsOrder)
	if err != nil {
		return nil, err
	}

	ds := &decoderState{schema: schema, kindsOrder: kindsOrder, strings: strings, numbers: numbers, bodies: bodies}

	val, err := replayValue(ds, startTok, nil)
	if err != nil {
		return nil, err
	}

	root, ok := val.(jsast.Node)
	if !ok {
		return nil, newError(UnexpectedRoot, "decode", nil)
	}

	if root.Kind() != "Script" && root.Kind() != "Module" {
		return nil, newError(UnexpectedRoot, "decode", nil)
	}

	return root, nil
}

func readHistogram(r *varint.Reader) ([]symspace.RankBucket, error) {
	rMinus1, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.histogram", err)
	}

	count0, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.histogram", err)
	}

	n := int(rMinus1) + 1
	buckets := make([]symspace.RankBucket, n)
	buckets[0] = symspace.RankBucket{Rank: 0, Count: int(count0)}

	prevRank := 0

	for i := 1; i < n; i++ {
		deltaMinus1, err := r.ReadUvarint()
		if err != nil {
			return nil, wrapIOErr("decode.histogram", err)
		}

		count, err := r.ReadUvarint()
		if err != nil {
			return nil, wrapIOErr("decode.histogram", err)
		}

		rank := prevRank + int(deltaMinus1) + 1
		buckets[i] = symspace.RankBucket{Rank: rank, Count: int(count)}
		prevRank = rank
	}

	return buckets, nil
}

func readStringPool(r *varint.Reader) ([]string, error) {
	count, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.strings", err)
	}

	n := int(count)
	lengths := make([]int, n)

	for i := 0; i < n; i++ {
		l, err := r.ReadUvarint()
		if err != nil {
			return nil, wrapIOErr("decode.strings", err)
		}

		lengths[i] = int(l)
	}

	out := make([]string, n)

	for i := 0; i < n; i++ {
		b, err := r.ReadRaw(lengths[i])
		if err != nil {
			return nil, wrapIOErr("decode.strings", err)
		}

		out[i] = string(b)
	}

	return out, nil
}

func readNumberPool(r *varint.Reader) ([]float64, error) {
	count, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.numbers", err)
	}

	n := int(count)
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, wrapIOErr("decode.numbers", err)
		}

		out[i] = v
	}

	return out, nil
}

func readToken(r *varint.Reader, space *symspace.Space, schema *grammar.Schema, kindsOrder []string) (*token, error) {
	code64, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("decode.body", err)
	}

	partition, index, ok := space.Classify(int(code64))
	if !ok {
		return nil, newError(UnknownTag, "decode.body", nil)
	}

	rank, err := tokenRank(space, schema, kindsOrder, partition, index)
	if err != nil {
		return nil, err
	}

	children := make([]*token, rank)

	for i := range children {
		c, err := readToken(r, space, schema, kindsOrder)
		if err != nil {
			return nil, err
		}

		children[i] = c
	}

	return &token{partition: partition, index: index, children: children}, nil
}

func tokenRank(space *symspace.Space, schema *grammar.Schema, kindsOrder []string, partition symspace.Partition, index int) (int, error) {
	switch partition {
	case symspace.PartitionParameter:
		return 0, nil
	case symspace.PartitionBuiltin:
		if index < 0 || index >= len(rtree.BuiltinOrder) {
			return 0, newError(UnknownTag, "decode.body", nil)
		}

		if rtree.BuiltinOrder[index] == rtree.TermCons {
			return 2, nil
		}

		return 0, nil
	case symspace.PartitionMetaRule:
		rank, ok := space.RankOfMetaRule(index)
		if !ok {
			return 0, newError(UnknownTag, "decode.body", nil)
		}

		return rank, nil
	case symspace.PartitionGrammarKind:
		if index < 0 || index >= len(kindsOrder) {
			return 0, newError(UnknownTag, "decode.body", nil)
		}

		entry, ok := schema.Lookup(kindsOrder[index])
		if !ok {
			return 0, newError(UnknownKind, "decode.body", nil)
		}

		return len(entry.Properties), nil
	case symspace.PartitionString, symspace.PartitionNumber:
		return 0, nil
	default:
		return 0, newError(UnknownTag, "decode.body", nil)
	}
}

func replayValue(ds *decoderState, tok *token, actuals []jsast.Value) (jsast.Value, error) {
	switch tok.partition {
	case symspace.PartitionParameter:
		if tok.index < 0 || tok.index >= len(actuals) {
			return nil, newError(InternalInvariant, "decode.replay", errors.New("parameter index out of scope"))
		}

		return actuals[tok.index], nil
	case symspace.PartitionBuiltin:
		return replayBuiltin(ds, tok, actuals)
	case symspace.PartitionMetaRule:
		return replayMetaRule(ds, tok, actuals)
	case symspace.PartitionGrammarKind:
		return replayGrammarKind(ds, tok, actuals)
	case symspace.PartitionString:
		if tok.index < 0 || tok.index >= len(ds.strings) {
			return nil, newError(InternalInvariant, "decode.replay", errors.New("string index out of range"))
		}

		return jsast.String{V: ds.strings[tok.index]}, nil
	case symspace.PartitionNumber:
		if tok.index < 0 || tok.index >= len(ds.numbers) {
			return nil, newError(InternalInvariant, "decode.replay", errors.New("number index out of range"))
		}

		return jsast.Number{V: ds.numbers[tok.index]}, nil
	default:
		return nil, newError(InternalInvariant, "decode.replay", errors.New("unclassified token"))
	}
}

func replayBuiltin(ds *decoderState, tok *token, actuals []jsast.Value) (jsast.Value, error) {
	class := rtree.BuiltinOrder[tok.index]

	switch class {
	case rtree.TermNil:
		return jsast.NewList(), nil
	case rtree.TermNull:
		return jsast.Null{}, nil
	case rtree.TermFalse:
		return jsast.Bool{V: false}, nil
	case rtree.TermTrue:
		return jsast.Bool{V: true}, nil
	case rtree.TermMissing:
		return jsast.Missing{}, nil
	case rtree.TermCons:
		head, err := replayValue(ds, tok.children[0], actuals)
		if err != nil {
			return nil, err
		}

		tail, err := replayValue(ds, tok.children[1], actuals)
		if err != nil {
			return nil, err
		}

		tailList, ok := tail.(jsast.List)
		if !ok {
			return nil, newError(InternalInvariant, "decode.replay", errors.New("cons tail did not resolve to a list"))
		}

		items := make([]jsast.Value, 0, len(tailList.Items)+1)
		items = append(items, head)
		items = append(items, tailList.Items...)

		return jsast.NewList(items...), nil
	default:
		return nil, newError(InternalInvariant, "decode.replay", errors.New("unrecognized builtin class"))
	}
}

func replayMetaRule(ds *decoderState, tok *token, actuals []jsast.Value) (jsast.Value, error) {
	if tok.index < 0 || tok.index >= len(ds.bodies) {
		return nil, newError(InternalInvariant, "decode.replay", errors.New("meta-rule index out of range"))
	}

	newActuals := make([]jsast.Value, len(tok.children))

	for i, c := range tok.children {
		v, err := replayValue(ds, c, actuals)
		if err != nil {
			return nil, err
		}

		newActuals[i] = v
	}

	return replayValue(ds, ds.bodies[tok.index], newActuals)
}

func replayGrammarKind(ds *decoderState, tok *token, actuals []jsast.Value) (jsast.Value, error) {
	if tok.index < 0 || tok.index >= len(ds.kindsOrder) {
		return nil, newError(UnknownTag, "decode.replay", nil)
	}

	kind := ds.kindsOrder[tok.index]

	entry, ok := ds.schema.Lookup(kind)
	if !ok {
		return nil, newError(UnknownKind, "decode.replay", nil)
	}

	if len(entry.Properties) != len(tok.children) {
		return nil, newError(InternalInvariant, "decode.replay", errors.New("property count mismatch"))
	}

	props := make(map[string]jsast.Value, len(entry.Properties))

	for i, name := range entry.Properties {
		v, err := replayValue(ds, tok.children[i], actuals)
		if err != nil {
			return nil, err
		}

		props[name] = v
	}

	node, err := jsast.DefaultRegistry.New(kind, props)
	if err != nil {
		if errors.Is(err, jsast.ErrUnknownKind) {
			return nil, newError(UnknownKind, "decode.replay", err)
		}

		return nil, newError(InternalInvariant, "decode.replay", err)
	}

	return node, nil
}
