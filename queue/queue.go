// Package queue implements the bounded priority queue used by the
// nearest-N, within and best-N queries.
package queue

import "cmp"

// Item is an element of a PriorityQueue.
type Item[P cmp.Ordered, V any] struct {
	Value    V
	Priority P
}

// PriorityQueue is a value-based binary heap. It does not implement
// container/heap to avoid interface overhead on the query hot path.
//
// A max-heap keeps its largest priority on top and, when bounded, retains
// the smallest priorities seen (nearest neighbours). A min-heap retains the
// largest (best scores).
type PriorityQueue[P cmp.Ordered, V any] struct {
	isMaxHeap bool
	items     []Item[P, V]
}

// NewMax creates a max-heap with room for capacity items.
func NewMax[P cmp.Ordered, V any](capacity int) *PriorityQueue[P, V] {
	return &PriorityQueue[P, V]{isMaxHeap: true, items: make([]Item[P, V], 0, capacity)}
}

// NewMin creates a min-heap with room for capacity items.
func NewMin[P cmp.Ordered, V any](capacity int) *PriorityQueue[P, V] {
	return &PriorityQueue[P, V]{items: make([]Item[P, V], 0, capacity)}
}

// Reset clears the queue for reuse.
func (pq *PriorityQueue[P, V]) Reset() {
	pq.items = pq.items[:0]
}

// Len returns the number of elements in the heap.
func (pq *PriorityQueue[P, V]) Len() int {
	return len(pq.items)
}

// TopItem returns the top element of the heap.
func (pq *PriorityQueue[P, V]) TopItem() (Item[P, V], bool) {
	if len(pq.items) == 0 {
		return Item[P, V]{}, false
	}

	return pq.items[0], true
}

// PushItem inserts an item while maintaining the heap invariant.
func (pq *PriorityQueue[P, V]) PushItem(item Item[P, V]) {
	pq.items = append(pq.items, item)
	pq.siftUp(len(pq.items) - 1)
}

// PushItemBounded inserts an item into a heap holding at most capacity
// items. A full heap replaces its top only if item is strictly better, so
// among equal priorities the earliest pushed survive. It reports whether
// the item was kept.
func (pq *PriorityQueue[P, V]) PushItemBounded(item Item[P, V], capacity int) bool {
	if capacity <= 0 {
		return false
	}

	if len(pq.items) < capacity {
		pq.PushItem(item)
		return true
	}

	if !pq.better(item.Priority, pq.items[0].Priority) {
		return false
	}

	pq.items[0] = item
	pq.siftDown(0)

	return true
}

// Admits reports whether an item with priority p would be kept by
// PushItemBounded with the given capacity.
func (pq *PriorityQueue[P, V]) Admits(p P, capacity int) bool {
	if len(pq.items) < capacity {
		return true
	}

	return capacity > 0 && pq.better(p, pq.items[0].Priority)
}

// PopItem removes and returns the top element from the heap.
func (pq *PriorityQueue[P, V]) PopItem() (Item[P, V], bool) {
	n := len(pq.items)
	if n == 0 {
		return Item[P, V]{}, false
	}

	item := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]

	if len(pq.items) > 0 {
		pq.siftDown(0)
	}

	return item, true
}

// Drain empties the heap and returns its items best first: ascending
// priority for a max-heap, descending for a min-heap.
func (pq *PriorityQueue[P, V]) Drain() []Item[P, V] {
	out := make([]Item[P, V], len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.PopItem()
	}

	return out
}

// better reports whether a should replace b as a retained item.
func (pq *PriorityQueue[P, V]) better(a, b P) bool {
	if pq.isMaxHeap {
		return a < b
	}

	return a > b
}

func (pq *PriorityQueue[P, V]) less(i, j int) bool {
	if pq.isMaxHeap {
		return pq.items[i].Priority > pq.items[j].Priority
	}

	return pq.items[i].Priority < pq.items[j].Priority
}

func (pq *PriorityQueue[P, V]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !pq.less(i, parent) {
			break
		}
		pq.items[i], pq.items[parent] = pq.items[parent], pq.items[i]
		i = parent
	}
}

func (pq *PriorityQueue[P, V]) siftDown(i int) {
	n := len(pq.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}

		j := left
		if right := left + 1; right < n && pq.less(right, left) {
			j = right
		}

		if !pq.less(j, i) {
			break
		}

		pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
		i = j
	}
}
