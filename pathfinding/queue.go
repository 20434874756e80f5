package pathfinding

import "container/heap"

// openSet is a binary min-heap of registry handles ordered by f. Ties are
// broken by insertion order so expansion is deterministic.
type openSet struct {
	reg   *registry
	items []int32
}

func (q *openSet) Len() int { return len(q.items) }

func (q *openSet) Less(i, j int) bool {
	a, b := q.reg.at(q.items[i]), q.reg.at(q.items[j])
	if a.f != b.f {
		return a.f < b.f
	}
	return a.seq < b.seq
}

func (q *openSet) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.reg.at(q.items[i]).heapIndex = i
	q.reg.at(q.items[j]).heapIndex = j
}

// Push implements heap.Interface. Use push instead.
func (q *openSet) Push(x any) {
	h := x.(int32)
	q.reg.at(h).heapIndex = len(q.items)
	q.items = append(q.items, h)
}

// Pop implements heap.Interface. Use pop instead.
func (q *openSet) Pop() any {
	old := q.items
	n := len(old)
	h := old[n-1]
	q.items = old[:n-1]
	q.reg.at(h).heapIndex = -1
	return h
}

func (q *openSet) reset(reg *registry) {
	q.reg = reg
	q.items = q.items[:0]
}

func (q *openSet) push(h int32) {
	heap.Push(q, h)
}

func (q *openSet) pop() int32 {
	return heap.Pop(q).(int32)
}

// update restores heap order after the node's f decreased.
func (q *openSet) update(h int32) {
	if i := q.reg.at(h).heapIndex; i >= 0 {
		heap.Fix(q, i)
	}
}
