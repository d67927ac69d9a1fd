package rtree

import (
	"math"
	"testing"
)

func TestArenaAllocWiresParentLinks(t *testing.T) {
	t.Parallel()

	pool := NewPool()
	arena := NewArena()

	leaf := arena.Alloc(pool.Builtin(TermNil), nil)
	cons := arena.Alloc(pool.Builtin(TermCons), []NodeID{leaf, leaf})

	if arena.Get(leaf).Parent != cons {
		t.Fatalf("leaf parent not wired to cons")
	}

	if arena.Get(cons).Children[1] != leaf {
		t.Fatalf("cons child 1 not wired")
	}
}

func TestSetChildRewiresBothSides(t *testing.T) {
	t.Parallel()

	pool := NewPool()
	arena := NewArena()

	a := arena.Alloc(pool.Builtin(TermNil), nil)
	b := arena.Alloc(pool.Builtin(TermNull), nil)
	parent := arena.Alloc(pool.Builtin(TermCons), []NodeID{a, a})

	arena.SetChild(parent, 1, b)

	if arena.Get(parent).Children[1] != b {
		t.Fatalf("parent child not updated")
	}

	if arena.Get(b).Parent != parent || arena.Get(b).ChildIdx != 1 {
		t.Fatalf("child back-links not updated")
	}
}

func TestVisitPreorderOrder(t *testing.T) {
	t.Parallel()

	pool := NewPool()
	arena := NewArena()

	leaf1 := arena.Alloc(pool.Builtin(TermNil), nil)
	leaf2 := arena.Alloc(pool.Builtin(TermNull), nil)
	root := arena.Alloc(pool.Builtin(TermCons), []NodeID{leaf1, leaf2})

	tree := &Tree{Arena: arena, Root: root}

	var order []NodeID
	tree.VisitPreorder(func(id NodeID) { order = append(order, id) })

	want := []NodeID{root, leaf1, leaf2}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}

	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestNewNonterminalFormals(t *testing.T) {
	t.Parallel()

	nt := NewNonterminal(0, 3)

	if len(nt.Formals) != 3 {
		t.Fatalf("expected 3 formals, got %d", len(nt.Formals))
	}

	for i, f := range nt.Formals {
		if f.ParamIndex != i {
			t.Fatalf("formal %d has ParamIndex %d", i, f.ParamIndex)
		}
	}
}

func TestPoolStringsLexicographicOrder(t *testing.T) {
	t.Parallel()

	pool := NewPool()

	pool.String("banana")
	pool.String("apple")
	pool.String("cherry")

	got := pool.Strings()
	want := []string{"apple", "banana", "cherry"}

	if len(got) != len(want) {
		t.Fatalf("got %d strings, want %d", len(got), len(want))
	}

	for i, sym := range got {
		if sym.StrVal != want[i] {
			t.Fatalf("position %d: got %q, want %q", i, sym.StrVal, want[i])
		}
	}
}

func TestPoolNumbersOrderedByUseCountThenFirstSeen(t *testing.T) {
	t.Parallel()

	pool := NewPool()

	// Interned first but used only once — descending use count must still
	// place it after values interned later with more uses.
	pool.Number(1)

	pool.Number(2)
	pool.Number(2)
	pool.Number(2)

	// Tied at one use each; first-seen order among ties must be preserved.
	pool.Number(3)
	pool.Number(4)

	got := pool.Numbers()
	want := []float64{2, 1, 3, 4}

	if len(got) != len(want) {
		t.Fatalf("got %d numbers, want %d", len(got), len(want))
	}

	for i, sym := range got {
		if sym.NumVal != want[i] {
			t.Fatalf("position %d: got %v, want %v", i, sym.NumVal, want[i])
		}
	}
}

func TestPoolNumbersDistinctNaNPayloadsInternSeparately(t *testing.T) {
	t.Parallel()

	pool := NewPool()

	nan1 := math.Float64frombits(0x7ff8000000000001)
	nan2 := math.Float64frombits(0x7ff8000000000002)

	pool.Number(nan1)
	pool.Number(nan1)
	pool.Number(nan2)

	got := pool.Numbers()
	if len(got) != 2 {
		t.Fatalf("expected 2 distinct NaN terminals, got %d", len(got))
	}

	if math.Float64bits(got[0].NumVal) != math.Float64bits(nan1) {
		t.Fatalf("expected the more-used NaN payload first, got bits %x", math.Float64bits(got[0].NumVal))
	}

	if math.Float64bits(got[1].NumVal) != math.Float64bits(nan2) {
		t.Fatalf("expected the less-used NaN payload second, got bits %x", math.Float64bits(got[1].NumVal))
	}
}
