// Package watch provides observable state cells.
//
// A Cell holds one authoritative value. Consumers read the current value or
// subscribe to replacements; all mutation goes through Set so observers only
// ever see fully-formed values.
package watch

import "sync"

// Cell is an observable holder of a single value.
type Cell[T any] struct {
	mu    sync.Mutex
	value T
	subs  map[int]chan T
	next  int
}

// NewCell creates a cell seeded with the initial value.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		value: initial,
		subs:  make(map[int]chan T),
	}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the current value and notifies subscribers.
//
// Delivery conflates: a subscriber that has not drained the previous
// notification observes only the latest value. Intermediate values may be
// skipped, which is the desired contract for whole-value replacement.
func (c *Cell[T]) Set(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	for _, ch := range c.subs {
		select {
		case ch <- value:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}

// Watch registers a subscription for future replacements.
// Values set before Watch are not replayed.
func (c *Cell[T]) Watch() *Sub[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan T, 1)
	id := c.next
	c.next++
	c.subs[id] = ch
	return &Sub[T]{cell: c, id: id, ch: ch}
}

func (c *Cell[T]) remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subs, id)
}

// Sub is a single subscription to a cell.
type Sub[T any] struct {
	cell *Cell[T]
	id   int
	ch   chan T
	once sync.Once
}

// C returns the channel delivering replacement values.
func (s *Sub[T]) C() <-chan T {
	return s.ch
}

// Close detaches the subscription. The channel is not closed so a
// concurrent Set never sends on a closed channel; pending values remain
// readable.
func (s *Sub[T]) Close() {
	s.once.Do(func() {
		s.cell.remove(s.id)
	})
}
