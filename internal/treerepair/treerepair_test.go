package treerepair

import (
	"testing"

	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
)

// countDigrams walks tree and reports how many times each
// (parent-symbol, position, child-symbol) triple occurs.
func countDigrams(t *testing.T, tree *rtree.Tree) map[digramKey]int {
	t.Helper()

	counts := make(map[digramKey]int)

	tree.VisitPreorder(func(id rtree.NodeID) {
		node := tree.Arena.Get(id)
		for pos, c := range node.Children {
			key := digramKey{Parent: node.Sym, Pos: pos, Child: tree.Arena.Get(c).Sym}
			counts[key]++
		}
	})

	return counts
}

func buildConsChain(t *testing.T, pool *rtree.Pool, arena *rtree.Arena, depth int) rtree.NodeID {
	t.Helper()

	leaf := pool.Kind("Leaf", 0)
	nilSym := pool.Builtin(rtree.TermNil)
	consSym := pool.Builtin(rtree.TermCons)

	tail := arena.Alloc(nilSym, nil)
	for i := 0; i < depth; i++ {
		car := arena.Alloc(leaf, nil)
		tail = arena.Alloc(consSym, []rtree.NodeID{car, tail})
	}

	return tail
}

func TestMineReducesRepeatedDigramsToAtMostOne(t *testing.T) {
	t.Parallel()

	pool := rtree.NewPool()
	arena := rtree.NewArena()

	root := buildConsChain(t, pool, arena, 5)
	tree := &rtree.Tree{Arena: arena, Root: root}

	result := Mine(tree)

	if len(result.Productions) == 0 {
		t.Fatalf("expected at least one production to be extracted")
	}

	for key, count := range countDigrams(t, result.Tree) {
		if count > 1 {
			t.Fatalf("digram %v still occurs %d times after mining", key, count)
		}
	}
}

func TestMineIsIdempotentOnItsOwnOutput(t *testing.T) {
	t.Parallel()

	pool := rtree.NewPool()
	arena := rtree.NewArena()

	root := buildConsChain(t, pool, arena, 5)
	tree := &rtree.Tree{Arena: arena, Root: root}

	first := Mine(tree)
	if len(first.Productions) == 0 {
		t.Fatalf("expected the first mining pass to extract productions")
	}

	second := Mine(first.Tree)
	if len(second.Productions) != 0 {
		t.Fatalf("expected re-mining an already-reduced tree to be a no-op, got %d productions", len(second.Productions))
	}

	if second.Tree.Root != first.Tree.Root {
		t.Fatalf("root should be unchanged by a no-op mining pass")
	}
}

func TestMineNoOpOnDigramFreeTree(t *testing.T) {
	t.Parallel()

	pool := rtree.NewPool()
	arena := rtree.NewArena()

	root := arena.Alloc(pool.Builtin(rtree.TermNil), nil)
	tree := &rtree.Tree{Arena: arena, Root: root}

	result := Mine(tree)

	if len(result.Productions) != 0 {
		t.Fatalf("expected no productions for a single-node tree, got %d", len(result.Productions))
	}

	if result.Tree.Root != root {
		t.Fatalf("root should be unchanged")
	}
}

func TestMineOverlappingChainCountsOnlyEarliestOccurrence(t *testing.T) {
	t.Parallel()

	pool := rtree.NewPool()
	arena := rtree.NewArena()

	// A chain of three cons cells nested at position 1 forms an
	// overlapping (cons, 1, cons) digram: only the first pairing may
	// count, so mining must not attempt to collapse all three at once.
	root := buildConsChain(t, pool, arena, 3)
	tree := &rtree.Tree{Arena: arena, Root: root}

	// The second (cons, 1, cons) pairing shares the middle cons cell with
	// the first, so the index must count that digram exactly once.
	probe := &Engine{tree: tree, bodyArena: rtree.NewArena(), groups: make(map[digramKey]*occGroup)}
	probe.buildInitialIndex()

	consSym := pool.Builtin(rtree.TermCons)
	if g := probe.groups[digramKey{Parent: consSym, Pos: 1, Child: consSym}]; g == nil || g.order.Len() != 1 {
		t.Fatalf("expected exactly one counted (cons, 1, cons) occurrence")
	}

	// Mining must complete without panicking on the overlap and must
	// leave a structurally sound tree behind.
	result := Mine(tree)

	var nodeCount int

	result.Tree.VisitPreorder(func(rtree.NodeID) { nodeCount++ })

	if nodeCount == 0 {
		t.Fatalf("expected a non-empty tree after mining")
	}
}

func TestBuildProductionBodyOrdersFormalsAOtherChildrenThenBChildren(t *testing.T) {
	t.Parallel()

	pool := rtree.NewPool()
	bodyArena := rtree.NewArena()

	cons := pool.Builtin(rtree.TermCons) // rank 2
	leaf := pool.Kind("Leaf", 0)         // rank 0

	nt := rtree.NewNonterminal(0, cons.Rank+leaf.Rank-1)
	bodyRoot := buildProductionBody(bodyArena, cons, leaf, 0, nt.Formals)

	root := bodyArena.Get(bodyRoot)
	if root.Sym != cons {
		t.Fatalf("expected body root labelled cons, got %v", root.Sym)
	}

	if bodyArena.Get(root.Children[0]).Sym != leaf {
		t.Fatalf("expected position 0 to hold the abbreviated child b")
	}

	if bodyArena.Get(root.Children[1]).Sym != nt.Formals[0] {
		t.Fatalf("expected position 1 to hold formal 0")
	}
}
