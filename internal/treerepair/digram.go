package treerepair

import (
	"container/list"

	"github.com/Sumatoshi-tech/jsastcodec/internal/rtree"
)

// digramKey identifies a digram type: a parent symbol, the child position
// within it, and the child symbol occupying that position.
// Terminal symbols are pool-interned and Nonterminal/Parameter symbols are
// unique by construction, so pointer equality is symbol equality.
type digramKey struct {
	Parent *rtree.Symbol
	Pos int
	Child *rtree.Symbol
}

// occGroup tracks every currently non-overlapping occurrence of one digram
// type, in preorder discovery order, plus enough bookkeeping to reject
// occurrences that would overlap an existing one.
type occGroup struct {
	key digramKey
	order *list.List // of rtree.NodeID: the occurrence's "a" node
	elems map[rtree.NodeID]*list.Element

	consumed map[rtree.NodeID]bool // child ids already claimed by an occurrence
	occChild map[rtree.NodeID]rtree.NodeID // occurrence parent id -> its consumed child id

	item *pqItem
}

func newOccGroup(key digramKey, seq int) *occGroup {
	return &occGroup{
		key: key,
		order: list.New(),
		elems: make(map[rtree.NodeID]*list.Element),
		consumed: make(map[rtree.NodeID]bool),
		occChild: make(map[rtree.NodeID]rtree.NodeID),
		item: &pqItem{key: key, seq: seq, index: -1},
	}
}

// add records a new occurrence with parent aID and consumed child childID.
// It reports false, without recording anything, if aID has already been
// consumed as another occurrence's child — the overlap case.
func (g *occGroup) add(aID, childID rtree.NodeID) bool {
	if g.consumed[aID] {
		return false
	}

	elem := g.order.PushBack(aID)
	g.elems[aID] = elem
	g.consumed[childID] = true
	g.occChild[aID] = childID
	g.item.count = g.order.Len()

	return true
}

func (g *occGroup) remove(aID rtree.NodeID) {
	elem, ok := g.elems[aID]
	if !ok {
		return
	}

	g.order.Remove(elem)
	delete(g.elems, aID)

	childID := g.occChild[aID]
	delete(g.occChild, aID)
	delete(g.consumed, childID)

	g.item.count = g.order.Len()
}
