// Package util
//
// This file provides the release queue used for delayed deletes.
//
// The queue combines a binary min-heap with a hash map. The heap yields the
// keys whose release time has elapsed in release order, the map gives O(1)
// membership checks for "is this key waiting for deletion".
//
//   - O(log n) for Push, Pop, Fix and RemoveByKey
//   - O(1) for Contains and GetByKey
//
// Note: MapHeap is not thread-safe. For concurrent use external
// synchronization must be applied.
//
// Example usage:
//
//	q := NewMapHeap()
//	q.AddItem("session:1", 1700000005)
//	q.AddItem("session:2", 1700000002)
//
//	// keys released strictly before now
//	for _, key := range q.PopBefore(now) {
//	    // remove key from the store
//	}
package util

import (
	"container/heap"
	"strconv"
)

// item is a queued key with its release time as priority.
type item struct {
	Key      string // Fully-qualified cache key
	Priority int64  // Release time in unix seconds
	index    int    // Index in the heap, maintained by heap package
}

func (i *item) String() string {
	return "{Key: " + i.Key + ", Priority: " + strconv.FormatInt(i.Priority, 10) + "}"
}

// MapHeap is a min-heap of keys ordered by priority with key based access.
type MapHeap struct {
	items    []*item          // The actual heap slice
	itemsMap map[string]*item // Map for O(1) access by key
}

// NewMapHeap creates an empty queue.
func NewMapHeap() *MapHeap {
	return &MapHeap{
		items:    make([]*item, 0),
		itemsMap: make(map[string]*item),
	}
}

// Len returns the number of items in the queue (part of heap.Interface)
func (q *MapHeap) Len() int { return len(q.items) }

// Less orders items by priority, lowest first (part of heap.Interface)
func (q *MapHeap) Less(i, j int) bool {
	return q.items[i].Priority < q.items[j].Priority
}

// Swap exchanges items at positions i and j (part of heap.Interface)
func (q *MapHeap) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.items[i].index = i
	q.items[j].index = j
}

// Push adds an item to the heap (part of heap.Interface)
func (q *MapHeap) Push(x interface{}) {
	it := x.(*item)
	it.index = len(q.items)
	q.items = append(q.items, it)
	q.itemsMap[it.Key] = it
}

// Pop removes and returns the minimum item (part of heap.Interface)
func (q *MapHeap) Pop() interface{} {
	old := q.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil // Avoid memory leak
	it.index = -1
	q.items = old[:n-1]
	delete(q.itemsMap, it.Key)
	return it
}

// AddItem queues key with the given priority or updates the priority of an
// already queued key.
func (q *MapHeap) AddItem(key string, priority int64) {
	if it, exists := q.itemsMap[key]; exists {
		it.Priority = priority
		heap.Fix(q, it.index)
		return
	}
	heap.Push(q, &item{Key: key, Priority: priority})
}

// RemoveByKey removes a key and returns its priority.
func (q *MapHeap) RemoveByKey(key string) (int64, bool) {
	it, exists := q.itemsMap[key]
	if !exists {
		return 0, false
	}
	heap.Remove(q, it.index)
	return it.Priority, true
}

// Peek returns the key with the lowest priority without removing it.
func (q *MapHeap) Peek() (string, int64, bool) {
	if len(q.items) == 0 {
		return "", 0, false
	}
	return q.items[0].Key, q.items[0].Priority, true
}

// Contains checks if a key is queued.
func (q *MapHeap) Contains(key string) bool {
	_, exists := q.itemsMap[key]
	return exists
}

// GetByKey returns the priority of a queued key.
func (q *MapHeap) GetByKey(key string) (int64, bool) {
	it, exists := q.itemsMap[key]
	if !exists {
		return 0, false
	}
	return it.Priority, true
}

// PopBefore removes and returns all keys with a priority strictly lower than
// limit, in priority order.
func (q *MapHeap) PopBefore(limit int64) []string {
	var keys []string
	for {
		_, priority, ok := q.Peek()
		if !ok || priority >= limit {
			return keys
		}
		keys = append(keys, heap.Pop(q).(*item).Key)
	}
}
