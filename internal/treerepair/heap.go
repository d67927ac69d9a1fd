package treerepair

// pqItem is one digram's entry in the mining priority queue: its current
// occurrence count and its discovery sequence number, used to break ties
// in favor of the digram type that was inserted earliest.
type pqItem struct {
	key digramKey
	count int
	seq int
	index int
}

// priorityQueue is a container/heap.Interface over digram entries, ordered
// by descending count then ascending seq — the max stays at index 0.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].count != pq[j].count {
		return pq[i].count > pq[j].count
	}

	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item, _ := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]

	return item
}
