// Package rtree implements the ranked-tree algebra TreeRePair mines over:
// symbols with a declared rank (child count), and a tree of nodes over an
// arena of integer indices rather than raw pointers, so the digram index
// can key on stable (nodeID, position) pairs.
package rtree

import "fmt"

// SymbolKind distinguishes the three symbol classes: terminal, nonterminal,
// and parameter.
type SymbolKind int

const (
	// KindTerminal is an opaque atom: a built-in, an AST kind, or an
	// interned string/numeric constant.
	KindTerminal SymbolKind = iota
	// KindNonterminal is a TreeRePair-synthesized grammar production.
	KindNonterminal
	// KindParameter is a rank-0 positional hole inside a production body.
	KindParameter
)

// TerminalClass identifies which family of terminal a Symbol represents.
type TerminalClass int

const (
	// TermNil is the empty-list terminal (rank 0).
	TermNil TerminalClass = iota
	// TermNull is the JavaScript null value (rank 0).
	TermNull
	// TermCons is the list-cons terminal (rank 2).
	TermCons
	// TermFalse is the boolean false literal (rank 0).
	TermFalse
	// TermTrue is the boolean true literal (rank 0).
	TermTrue
	// TermMissing is the ⊥ "hole" value (rank 0).
	TermMissing
	// TermKind is an AST node kind, rank = property count.
	TermKind
	// TermString is an interned string literal (rank 0).
	TermString
	// TermNumber is an interned numeric literal (rank 0).
	TermNumber
)

// BuiltinOrder is the fixed emission order of the six built-in terminals.
//
//nolint:gochecknoglobals // fixed wire-format contract, not mutable state
var BuiltinOrder = []TerminalClass{TermNil, TermNull, TermCons, TermFalse, TermTrue, TermMissing}

// Symbol is a node label: a Terminal, Nonterminal, or Parameter.
//
// Terminal identity is by value (two Symbols with the same Class/KindName/
// StrVal/NumVal denote the same terminal) — callers should always obtain
// terminal Symbols from a Pool so that identical terminals share one
// pointer and can be compared by identity elsewhere in the engine.
// Nonterminal and Parameter identity is always by pointer: each is unique
// the moment it is created.
type Symbol struct {
	SymKind SymbolKind
	Rank int

	// Terminal fields.
	Class TerminalClass
	KindName string // valid when Class == TermKind
	StrVal string // valid when Class == TermString
	NumVal float64 // valid when Class == TermNumber

	// Nonterminal fields.
	NTIndex int // discovery order among nonterminals, assigned at creation
	Formals []*Symbol // this nonterminal's own Parameter symbols, in formal order

	// Parameter fields.
	ParamIndex int // position of this parameter within its owning nonterminal's formals
}

// String renders a Symbol for debugging and error messages.
func (s *Symbol) String() string {
	switch s.SymKind {
	case KindTerminal:
		switch s.Class {
		case TermKind:
			return "kind:" + s.KindName
		case TermString:
			return fmt.Sprintf("str:%q", s.StrVal)
		case TermNumber:
			return fmt.Sprintf("num:%v", s.NumVal)
		case TermNil, TermNull, TermCons, TermFalse, TermTrue, TermMissing:
			return builtinName(s.Class)
		default:
			return "terminal:?"
		}
	case KindNonterminal:
		return fmt.Sprintf("N%d/%d", s.NTIndex, s.Rank)
	case KindParameter:
		return fmt.Sprintf("p%d", s.ParamIndex)
	default:
		return "symbol:?"
	}
}

func builtinName(c TerminalClass) string {
	switch c {
	case TermNil:
		return "nil"
	case TermNull:
		return "null"
	case TermCons:
		return "cons"
	case TermFalse:
		return "false"
	case TermTrue:
		return "true"
	case TermMissing:
		return "⊥"
	default:
		return "?"
	}
}
