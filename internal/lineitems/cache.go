package lineitems

import "container/list"

// CodeCache is a bounded, most-recently-used keyed store for resolved tax
// code records. Every successful lookup or explicit selection writes through
// it; the recalculation pass reads it synchronously. Entries are evicted in
// LRU order once capacity is reached, never invalidated otherwise.
//
// CodeCache is not safe for concurrent use; the owning Engine serializes
// access behind its own mutex.
type CodeCache[T any] struct {
	capacity int
	order    *list.List
	entries  map[string]*list.Element
}

type cacheEntry[T any] struct {
	code   string
	record T
}

// NewCodeCache creates a cache holding at most capacity records.
func NewCodeCache[T any](capacity int) *CodeCache[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &CodeCache[T]{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

// Get returns the record for code and whether it was present.
func (c *CodeCache[T]) Get(code string) (T, bool) {
	if el, ok := c.entries[code]; ok {
		c.order.MoveToFront(el)
		return el.Value.(*cacheEntry[T]).record, true
	}
	var zero T
	return zero, false
}

// Put stores or refreshes a record under its code key.
func (c *CodeCache[T]) Put(code string, record T) {
	if el, ok := c.entries[code]; ok {
		el.Value.(*cacheEntry[T]).record = record
		c.order.MoveToFront(el)
		return
	}
	c.entries[code] = c.order.PushFront(&cacheEntry[T]{code: code, record: record})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry[T]).code)
	}
}

// Len returns the number of cached records.
func (c *CodeCache[T]) Len() int {
	return c.order.Len()
}
