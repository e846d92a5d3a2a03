package dstarlite

import (
	"container/heap"

	"github.com/katalvlaran/gridfleet/grid"
)

// openItem is one heap entry. It may be stale; see openQueue.
type openItem struct {
	cell grid.Cell
	key  Key
	seq  uint64 // insertion order, breaks key ties
}

// openHeap is a min-heap of *openItem ordered by key, then seq.
type openHeap []*openItem

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].key == h[j].key {
		return h[i].seq < h[j].seq
	}
	return h[i].key.Less(h[j].key)
}

func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openHeap) Push(x interface{}) { *h = append(*h, x.(*openItem)) }

func (h *openHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// openQueue is the D* Lite open list with lazy deletion.
// member holds the live key of every queued cell; heap entries that disagree
// with it are stale and are discarded when they surface.
type openQueue struct {
	items  openHeap
	member map[grid.Cell]Key
	seq    uint64
}

func newOpenQueue(capacity int) *openQueue {
	return &openQueue{
		items:  make(openHeap, 0, capacity),
		member: make(map[grid.Cell]Key, capacity),
	}
}

// insert queues c with key k, superseding any earlier entry for c.
func (q *openQueue) insert(c grid.Cell, k Key) {
	q.seq++
	q.member[c] = k
	heap.Push(&q.items, &openItem{cell: c, key: k, seq: q.seq})
}

// remove drops c from the queue. Its heap entry becomes stale.
func (q *openQueue) remove(c grid.Cell) {
	delete(q.member, c)
}

// contains reports whether c is queued.
func (q *openQueue) contains(c grid.Cell) bool {
	_, ok := q.member[c]
	return ok
}

// prune discards stale entries from the top of the heap.
func (q *openQueue) prune() {
	for q.items.Len() > 0 {
		top := q.items[0]
		if k, ok := q.member[top.cell]; ok && k == top.key {
			return
		}
		heap.Pop(&q.items)
	}
}

// top returns the smallest live entry without removing it.
func (q *openQueue) top() (grid.Cell, Key, bool) {
	q.prune()
	if q.items.Len() == 0 {
		return grid.Cell{}, Key{}, false
	}
	return q.items[0].cell, q.items[0].key, true
}

// pop removes and returns the smallest live entry.
func (q *openQueue) pop() (grid.Cell, Key, bool) {
	q.prune()
	if q.items.Len() == 0 {
		return grid.Cell{}, Key{}, false
	}
	item := heap.Pop(&q.items).(*openItem)
	delete(q.member, item.cell)
	return item.cell, item.key, true
}

// len counts live entries.
func (q *openQueue) len() int { return len(q.member) }
