// Package treerepair mines frequent digrams out of a ranked tree and
// abbreviates them into a small straight-line grammar, following the
// offline TreeRePair algorithm: repeatedly pick the most frequent
// (parent-label, child-position, child-label) digram, synthesize a
// nonterminal for it, and replace every non-overlapping occurrence with an
// invocation of that nonterminal, until no digram occurs more than once.
package treerepair

import (
	"container/heap"

	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
)

// Production is one synthesized grammar rule: a nonterminal symbol and the
// body tree it expands to, expressed over its own Formals as parameters.
type Production struct {
	Symbol *rtree.Symbol
	Body rtree.NodeID
}

// Result is a mining run's output.
type Result struct {
	// Tree is the mutated start tree: every mined digram occurrence has
	// been replaced by an invocation of its nonterminal.
	Tree *rtree.Tree
	// Productions holds every extracted rule, in creation order — which is
	// also valid dependency order (a later rule may reference an earlier
	// one, never the reverse).
	Productions []*Production
	// BodyArena owns every Production's Body tree.
	BodyArena *rtree.Arena
}

// Engine holds the live mining state for a single run.
type Engine struct {
	tree *rtree.Tree
	bodyArena *rtree.Arena

	groups map[digramKey]*occGroup
	pq priorityQueue

	seq int
	ntNext int

	productions []*Production
}

// Mine runs the TreeRePair main loop to completion, mutating tree in
// place, and returns the extracted grammar.
func Mine(tree *rtree.Tree) *Result {
	e := &Engine{
		tree: tree,
		bodyArena: rtree.NewArena(),
		groups: make(map[digramKey]*occGroup),
	}

	e.buildInitialIndex()

	for {
		top := e.peek()
		if top == nil || top.count < 2 {
			break
		}

		e.extract(top)
	}

	return &Result{Tree: e.tree, Productions: e.productions, BodyArena: e.bodyArena}
}

func (e *Engine) peek() *pqItem {
	if len(e.pq) == 0 {
		return nil
	}

	return e.pq[0]
}

// buildInitialIndex scans the whole start tree once, in preorder, adding
// every (parent, position, child) edge as a candidate digram occurrence.
// Preorder visitation order is what makes occGroup.add's overlap check
// correct: an ancestor's edge is always offered before its descendant's.
func (e *Engine) buildInitialIndex() {
	e.tree.VisitPreorder(func(id rtree.NodeID) {
		node := e.tree.Arena.Get(id)
		for pos, c := range node.Children {
			e.addEdge(node.Sym, id, pos, e.tree.Arena.Get(c).Sym, c)
		}
	})
}

func (e *Engine) addEdge(parentSym *rtree.Symbol, parentID rtree.NodeID, pos int, childSym *rtree.Symbol, childID rtree.NodeID) {
	key := digramKey{Parent: parentSym, Pos: pos, Child: childSym}

	g, ok := e.groups[key]
	if !ok {
		g = newOccGroup(key, e.seq)
		e.seq++
		e.groups[key] = g
		heap.Push(&e.pq, g.item)
	}

	g.add(parentID, childID)
	e.syncHeap(g)
}

func (e *Engine) removeEdge(parentSym *rtree.Symbol, parentID rtree.NodeID, pos int, childSym *rtree.Symbol) {
	key := digramKey{Parent: parentSym, Pos: pos, Child: childSym}

	g, ok := e.groups[key]
	if !ok {
		return
	}

	g.remove(parentID)
	e.syncHeap(g)
}

// syncHeap reconciles the heap with a group's current occurrence count:
// drops the group once it is empty, otherwise re-establishes the heap
// invariant around its (possibly changed) position.
func (e *Engine) syncHeap(g *occGroup) {
	if g.item.count == 0 {
		delete(e.groups, g.key)

		if g.item.index >= 0 {
			heap.Remove(&e.pq, g.item.index)
		}

		return
	}

	if g.item.index >= 0 {
		heap.Fix(&e.pq, g.item.index)
	}
}

// extract synthesizes a nonterminal for the winning digram and replaces
// every one of its current occurrences with an invocation of it.
func (e *Engine) extract(top *pqItem) {
	g := e.groups[top.key]

	occs := make([]rtree.NodeID, 0, g.order.Len())
	for el := g.order.Front(); el != nil; el = el.Next() {
		id, _ := el.Value.(rtree.NodeID)
		occs = append(occs, id)
	}

	delete(e.groups, top.key)
	heap.Remove(&e.pq, top.index)

	key := top.key
	rank := key.Parent.Rank + key.Child.Rank - 1
	nt := rtree.NewNonterminal(e.ntNext, rank)
	e.ntNext++

	body := buildProductionBody(e.bodyArena, key.Parent, key.Child, key.Pos, nt.Formals)
	e.productions = append(e.productions, &Production{Symbol: nt, Body: body})

	for _, aID := range occs {
		e.replaceOccurrence(aID, key, nt)
	}
}

// replaceOccurrence collapses one a(...,b(...),...)-shaped occurrence at
// aID into a single node labelled nt, whose children are a's other
// children followed by b's children, and repairs the
// digram index around the edges the surgery touches.
func (e *Engine) replaceOccurrence(aID rtree.NodeID, key digramKey, nt *rtree.Symbol) {
	arena := e.tree.Arena

	aNode := arena.Get(aID)
	aChildren := append([]rtree.NodeID(nil), aNode.Children...)
	bID := aChildren[key.Pos]
	bChildren := append([]rtree.NodeID(nil), arena.Get(bID).Children...)

	parentID := aNode.Parent
	parentIdx := aNode.ChildIdx

	newChildren := make([]rtree.NodeID, 0, nt.Rank)

	for pos, c := range aChildren {
		if pos == key.Pos {
			continue
		}

		e.removeEdge(key.Parent, aID, pos, arena.Get(c).Sym)
		newChildren = append(newChildren, c)
	}

	for pos, c := range bChildren {
		e.removeEdge(key.Child, bID, pos, arena.Get(c).Sym)
		newChildren = append(newChildren, c)
	}

	arena.Free(bID)
	arena.Free(aID)

	newID := arena.Alloc(nt, newChildren)

	if parentID == rtree.NilID {
		e.tree.Root = newID
	} else {
		parentSym := arena.Get(parentID).Sym
		e.removeEdge(parentSym, parentID, parentIdx, key.Parent)
		arena.SetChild(parentID, parentIdx, newID)
		e.addEdge(parentSym, parentID, parentIdx, nt, newID)
	}

	for pos, c := range newChildren {
		e.addEdge(nt, newID, pos, arena.Get(c).Sym, c)
	}
}

// buildProductionBody builds the abstract body of a digram (a, pos, b):
// a's other children first, then b's children, each replaced by a formal
// parameter in that same order. The body is purely
// symbolic — it never references the live tree's actual node instances.
func buildProductionBody(bodyArena *rtree.Arena, a, b *rtree.Symbol, pos int, formals []*rtree.Symbol) rtree.NodeID {
	offset := a.Rank - 1

	bChildren := make([]rtree.NodeID, b.Rank)
	for k := range bChildren {
		bChildren[k] = bodyArena.Alloc(formals[offset+k], nil)
	}

	bNode := bodyArena.Alloc(b, bChildren)

	aChildren := make([]rtree.NodeID, a.Rank)
	formalIdx := 0

	for p := range aChildren {
		if p == pos {
			aChildren[p] = bNode
			continue
		}

		aChildren[p] = bodyArena.Alloc(formals[formalIdx], nil)
		formalIdx++
	}

	return bodyArena.Alloc(a, aChildren)
}
