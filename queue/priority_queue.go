// Package queue provides a generic priority queue implementation based on container/heap
package queue

// Priority queue based on
// https://golang.org/pkg/container/heap/#example__priorityQueue

import (
	"container/heap"
)

// innerPriorityQueue implements heap.Interface over the raw values
type innerPriorityQueue[E any] struct {
	items    []E
	lessFunc func(E, E) bool
}

// PriorityQueue is a min-heap ordered by the less function it was created with.
// The element for which less holds against every other element is returned first.
type PriorityQueue[E any] struct {
	ipq innerPriorityQueue[E]
}

// NewPriorityQueue creates a new heap based PriorityQueue using lessFunc as the ordering.
// capacity is a hint for the expected number of elements.
func NewPriorityQueue[E any](lessFunc func(E, E) bool, capacity int) *PriorityQueue[E] {
	var pq PriorityQueue[E]
	pq.ipq.items = make([]E, 0, capacity)
	pq.ipq.lessFunc = lessFunc
	return &pq
}

// Len returns the number of items in the queue
func (pq *PriorityQueue[E]) Len() int {
	return pq.ipq.Len()
}

// Push adds x to the queue
func (pq *PriorityQueue[E]) Push(x E) {
	heap.Push(&pq.ipq, x)
}

// Pop removes and returns the next item in the queue
func (pq *PriorityQueue[E]) Pop() E {
	return heap.Pop(&pq.ipq).(E)
}

// Peek returns the next item in the queue without removing it
func (pq *PriorityQueue[E]) Peek() E {
	return pq.ipq.items[0]
}

// PeekUpdate restores the heap order after the item returned by Peek changed
// in place (for pointer types) or replaces it with x.
func (pq *PriorityQueue[E]) PeekUpdate(x E) {
	pq.ipq.items[0] = x
	heap.Fix(&pq.ipq, 0)
}

func (pq *innerPriorityQueue[E]) Len() int {
	return len(pq.items)
}

func (pq *innerPriorityQueue[E]) Less(i, j int) bool {
	return pq.lessFunc(pq.items[i], pq.items[j])
}

func (pq *innerPriorityQueue[E]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
}

func (pq *innerPriorityQueue[E]) Push(x any) {
	pq.items = append(pq.items, x.(E))
}

func (pq *innerPriorityQueue[E]) Pop() any {
	old := pq.items
	n := len(old)
	it := old[n-1]
	var zero E
	old[n-1] = zero // release reference
	pq.items = old[0 : n-1]
	return it
}
