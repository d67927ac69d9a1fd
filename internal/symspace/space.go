// Package symspace implements the fixed six-partition symbol code space of
// , shared verbatim between encoder and decoder so the
// arithmetic for "which partition does code X fall in" lives in exactly
// one place.
package symspace

// Partition names one of the six fixed regions of the code space.
type Partition int

const (
	PartitionParameter Partition = iota
	PartitionBuiltin
	PartitionMetaRule
	PartitionGrammarKind
	PartitionString
	PartitionNumber
)

// BuiltinCount is the fixed number of built-in terminals: nil, null, cons,
// false, true, ⊥. A decoder that reads any other count must refuse the
// stream with VersionMismatch.
const BuiltinCount = 6

// RankBucket groups the meta-rules of one rank, in the order they were
// discovered by TreeRePair. Buckets themselves must be supplied in
// ascending rank order — that ordering, plus discovery order within a
// bucket, is what fixes each meta-rule's code.
type RankBucket struct {
	Rank int
	Count int
}

// Space computes the base offset of each partition from the six counts
// P (parameters), the built-in count, M (meta-rules, via buckets),
// G (grammar kinds), S (string pool size) and F (numeric pool size).
type Space struct {
	ParamCount int
	Buckets []RankBucket
	GrammarCount int
	StringCount int
	NumberCount int

	metaCount int

	builtinBase int
	metaBase int
	grammarBase int
	stringBase int
	numberBase int
	total int
}

// New builds a Space from the header counts. buckets must already be in
// ascending-rank order; New does not sort them.
func New(paramCount int, buckets []RankBucket, grammarCount, stringCount, numberCount int) *Space {
	metaCount := 0
	for _, b := range buckets {
		metaCount += b.Count
	}

	s := &Space{
		ParamCount: paramCount,
		Buckets: buckets,
		GrammarCount: grammarCount,
		StringCount: stringCount,
		NumberCount: numberCount,
		metaCount: metaCount,
	}

	s.builtinBase = paramCount
	s.metaBase = s.builtinBase + BuiltinCount
	s.grammarBase = s.metaBase + metaCount
	s.stringBase = s.grammarBase + grammarCount
	s.numberBase = s.stringBase + stringCount
	s.total = s.numberBase + numberCount

	return s
}

// MetaRuleCount is M, the total number of meta-rules across all buckets.
func (s *Space) MetaRuleCount() int { return s.metaCount }

// Total is the number of distinct codes in the space.
func (s *Space) Total() int { return s.total }

func (s *Space) ParamCode(i int) int { return i }
func (s *Space) BuiltinCode(i int) int { return s.builtinBase + i }
func (s *Space) MetaRuleCode(i int) int { return s.metaBase + i }
func (s *Space) GrammarCode(i int) int { return s.grammarBase + i }
func (s *Space) StringCode(i int) int { return s.stringBase + i }
func (s *Space) NumberCode(i int) int { return s.numberBase + i }

// RankOfMetaRule returns the declared rank of the meta-rule at global
// (rank-grouped) index i, derived from the histogram.
func (s *Space) RankOfMetaRule(i int) (rank int, ok bool) {
	if i < 0 {
		return 0, false
	}

	for _, b := range s.Buckets {
		if i < b.Count {
			return b.Rank, true
		}

		i -= b.Count
	}

	return 0, false
}

// Classify maps a raw code back to its partition and index within that
// partition. It reports ok=false for codes outside every partition
// (decoder's UnknownTag condition).
func (s *Space) Classify(code int) (partition Partition, index int, ok bool) {
	switch {
	case code < 0:
		return 0, 0, false
	case code < s.builtinBase:
		return PartitionParameter, code, true
	case code < s.metaBase:
		return PartitionBuiltin, code - s.builtinBase, true
	case code < s.grammarBase:
		return PartitionMetaRule, code - s.metaBase, true
	case code < s.stringBase:
		return PartitionGrammarKind, code - s.grammarBase, true
	case code < s.numberBase:
		return PartitionString, code - s.stringBase, true
	case code < s.total:
		return PartitionNumber, code - s.numberBase, true
	default:
		return 0, 0, false
	}
}
