package codec

import (
	"math"
	"sort"

	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
	"github.com/Sumatoshi-tech/jsastcodec/internal/symspace"
	"github.com/Sumatoshi-tech/jsastcodec/internal/treerepair"
)

// groupMetaRulesByRank reorders productions into ascending-rank, stable
// discovery-order sequence — the order assigns meta-rule
// codes in — and derives the header's rank histogram from it. A rank-0
// bucket is always present, with count 0 if no meta-rule actually has
// rank 0, so the histogram's first entry is never omitted.
func groupMetaRulesByRank(productions []*treerepair.Production) ([]*treerepair.Production, []symspace.RankBucket) {
	ordered := append([]*treerepair.Production(nil), productions...)

	sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Symbol.Rank < ordered[j].Symbol.Rank
	})

	var buckets []symspace.RankBucket

	for _, p := range ordered {
		n := len(buckets)
		if n > 0 && buckets[n-1].Rank == p.Symbol.Rank {
			buckets[n-1].Count++

			continue
		}

		buckets = append(buckets, symspace.RankBucket{Rank: p.Symbol.Rank, Count: 1})
	}

	if len(buckets) == 0 || buckets[0].Rank != 0 {
		buckets = append([]symspace.RankBucket{{Rank: 0, Count: 0}}, buckets...)
	}

	return ordered, buckets
}

// maxRank returns the largest formal-parameter count across every
// production, which parameter-partition size P must cover:
// parameter codes are positional and reused by position across meta-rules,
// so P only needs to be as large as the widest production.
func maxRank(productions []*treerepair.Production) int {
	max := 0

	for _, p := range productions {
		if p.Symbol.Rank > max {
			max = p.Symbol.Rank
		}
	}

	return max
}

// codeTable maps every live symbol to its assigned integer code, built
// once per encode call from the ordering already fixed by grouping and
// pool ordering.
type codeTable struct {
	ntCode map[*rtree.Symbol]int
	kindCode map[string]int
	stringCode map[string]int
	numberCode map[uint64]int
	builtinCode map[rtree.TerminalClass]int
}

func buildCodeTable(space *symspace.Space, ordered []*treerepair.Production, kinds []string, strings, numbers []*rtree.Symbol) *codeTable {
	t := &codeTable{
		ntCode: make(map[*rtree.Symbol]int, len(ordered)),
		kindCode: make(map[string]int, len(kinds)),
		stringCode: make(map[string]int, len(strings)),
		numberCode: make(map[uint64]int, len(numbers)),
		builtinCode: make(map[rtree.TerminalClass]int, len(rtree.BuiltinOrder)),
	}

	for i, p := range ordered {
		t.ntCode[p.Symbol] = space.MetaRuleCode(i)
	}

	for i, k := range kinds {
		t.kindCode[k] = space.GrammarCode(i)
	}

	for i, s := range strings {
		t.stringCode[s.StrVal] = space.StringCode(i)
	}

	for i, n := range numbers {
		t.numberCode[math.Float64bits(n.NumVal)] = space.NumberCode(i)
	}

	for i, c := range rtree.BuiltinOrder {
		t.builtinCode[c] = space.BuiltinCode(i)
	}

	return t
}

func (t *codeTable) code(sym *rtree.Symbol) (int, error) {
	switch sym.SymKind {
	case rtree.KindParameter:
		return sym.ParamIndex, nil
	case rtree.KindNonterminal:
		c, ok := t.ntCode[sym]
		if !ok {
			return 0, newError(InternalInvariant, "encode", errUnregisteredSymbol(sym))
		}

		return c, nil
	case rtree.KindTerminal:
		return t.terminalCode(sym)
	default:
		return 0, newError(InternalInvariant, "encode", errUnregisteredSymbol(sym))
	}
}

func (t *codeTable) terminalCode(sym *rtree.Symbol) (int, error) {
	switch sym.Class {
	case rtree.TermKind:
		c, ok := t.kindCode[sym.KindName]
		if !ok {
			return 0, newError(UnknownKind, "encode", errUnregisteredSymbol(sym))
		}

		return c, nil
	case rtree.TermString:
		c, ok := t.stringCode[sym.StrVal]
		if !ok {
			return 0, newError(InternalInvariant, "encode", errUnregisteredSymbol(sym))
		}

		return c, nil
	case rtree.TermNumber:
		c, ok := t.numberCode[math.Float64bits(sym.NumVal)]
		if !ok {
			return 0, newError(InternalInvariant, "encode", errUnregisteredSymbol(sym))
		}

		return c, nil
	default:
		c, ok := t.builtinCode[sym.Class]
		if !ok {
			return 0, newError(InternalInvariant, "encode", errUnregisteredSymbol(sym))
		}

		return c, nil
	}
}
