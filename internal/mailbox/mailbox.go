// Package mailbox provides the unbounded FIFO that serializes messages into the
// ticker's event loop and samples into the history writer.
//
// Producers never block: the backing ring doubles once it is 70% full. A single
// consumer typically drains it with Receive, which blocks until an item arrives
// or the mailbox is closed.
package mailbox

import "sync"

// growPercent is the fill level at which the ring doubles.
const growPercent = 70

// Buffer is a thread-safe growable ring.
type Buffer[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ring   []T
	head   int
	tail   int
	count  int
	closed bool

	sent     int64
	received int64
	resizes  int
}

// New creates a Buffer with the given initial capacity (minimum 1).
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	b := &Buffer[T]{ring: make([]T, capacity)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Send appends item. It returns false once the buffer is closed.
func (b *Buffer[T]) Send(item T) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return false
	}

	threshold := max(len(b.ring)*growPercent/100, 1)
	if b.count+1 >= threshold {
		b.grow()
	}

	b.ring[b.tail] = item
	b.tail = (b.tail + 1) % len(b.ring)
	b.count++
	b.sent++

	b.cond.Signal()
	return true
}

// Receive blocks until an item is available. After Close it keeps returning
// queued items, then the zero value and false.
func (b *Buffer[T]) Receive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.count == 0 && !b.closed {
		b.cond.Wait()
	}

	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.pop(), true
}

// TryReceive returns the oldest item without blocking.
func (b *Buffer[T]) TryReceive() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		var zero T
		return zero, false
	}
	return b.pop(), true
}

// DrainTo removes up to max items (all if max <= 0) in FIFO order.
func (b *Buffer[T]) DrainTo(max int) []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}

	n := b.count
	if max > 0 && max < n {
		n = max
	}

	out := make([]T, n)
	for i := range out {
		out[i] = b.pop()
	}
	return out
}

// Close stops accepting items and wakes blocked receivers.
func (b *Buffer[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.cond.Broadcast()
}

// Closed reports whether Close has been called.
func (b *Buffer[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Len returns the number of queued items.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Cap returns the current ring capacity.
func (b *Buffer[T]) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.ring)
}

// Stats is a point-in-time view of a Buffer.
type Stats struct {
	Count    int   `json:"count"`
	Capacity int   `json:"capacity"`
	Sent     int64 `json:"sent"`
	Received int64 `json:"received"`
	Resizes  int   `json:"resizes"`
}

// Stats returns buffer statistics.
func (b *Buffer[T]) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		Count:    b.count,
		Capacity: len(b.ring),
		Sent:     b.sent,
		Received: b.received,
		Resizes:  b.resizes,
	}
}

// pop removes the head item. Caller holds the lock and has checked count > 0.
func (b *Buffer[T]) pop() T {
	item := b.ring[b.head]
	var zero T
	b.ring[b.head] = zero
	b.head = (b.head + 1) % len(b.ring)
	b.count--
	b.received++
	return item
}

// grow doubles the ring, unwrapping it so head is 0. Caller holds the lock.
func (b *Buffer[T]) grow() {
	next := make([]T, len(b.ring)*2)

	if b.count > 0 {
		if b.head < b.tail {
			copy(next, b.ring[b.head:b.tail])
		} else {
			n := copy(next, b.ring[b.head:])
			copy(next[n:], b.ring[:b.tail])
		}
	}

	b.ring = next
	b.head = 0
	b.tail = b.count
	b.resizes++
}
