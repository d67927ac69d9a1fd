package codec

import (
	"io"

	"github.com/Sumatoshi-tech/jsastcodec/internal/grammar"
	"github.com/Sumatoshi-tech/jsastcodec/internal/symspace"
	"github.com/Sumatoshi-tech/jsastcodec/pkg/varint"
)

// HeaderInfo summarizes a compressed stream's header without replaying its
// meta-rule bodies or start tree — the `inspect` command's read-only report.
type HeaderInfo struct {
	GrammarKinds []string
	ParamCount int
	MetaRuleCount int
	RankHistogram []symspace.RankBucket
	StringPool []string
	NumberPool []float64
}

// Inspect reads and validates the header of src without decoding the body.
func Inspect(src io.Reader) (*HeaderInfo, error) {
	r := varint.NewReader(src)

	grammarLen, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("inspect.header", err)
	}

	grammarJSON, err := r.ReadRaw(int(grammarLen))
	if err != nil {
		return nil, wrapIOErr("inspect.header", err)
	}

	if err := grammar.ValidateHeader(grammarJSON); err != nil {
		return nil, wrapGrammarErr("inspect.header", err)
	}

	schema := grammar.NewSchema()
	if err := schema.UnmarshalJSON(grammarJSON); err != nil {
		return nil, wrapGrammarErr("inspect.header", err)
	}

	paramCount64, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("inspect.header", err)
	}

	builtinCount, err := r.ReadUvarint()
	if err != nil {
		return nil, wrapIOErr("inspect.header", err)
	}

	if builtinCount != symspace.BuiltinCount {
		return nil, newError(VersionMismatch, "inspect.header", nil)
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

	metaRuleCount := 0
	for _, b := range buckets {
		metaRuleCount += b.Count
	}

	return &HeaderInfo{
		GrammarKinds: schema.Kinds(),
		ParamCount: int(paramCount64),
		MetaRuleCount: metaRuleCount,
		RankHistogram: buckets,
		StringPool: strings,
		NumberPool: numbers,
	}, nil
}
