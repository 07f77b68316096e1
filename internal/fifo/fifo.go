// SPDX-License-Identifier: MIT
/*
Package fifo implements the bounded single-producer/single-consumer handoff
queue used between the real-time audio side and the UI tick.

Real-Time Safety:
  - Push never blocks, never fails and never allocates once prepared
  - When the queue is full the oldest unread item is overwritten (drop-oldest)
  - No locks; both cursors are monotonically increasing atomics

Pull copies the oldest slot and only then claims it by advancing the read
cursor with a compare-and-swap. If the producer dropped that slot while it was
being copied, the claim fails and the copy is discarded and retried, so a
consumer never returns a partially written item.

Prepare must not be called while a producer or consumer is active.
*/
package fifo

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// MinCapacity is the smallest capacity a queue may be prepared with.
const MinCapacity = 2

// ErrCapacity is returned when a queue is prepared with fewer than MinCapacity slots.
var ErrCapacity = errors.New("fifo: capacity must be at least 2")

// Fifo is a fixed-capacity drop-oldest ring buffer for exactly one producer
// goroutine and one consumer goroutine.
type Fifo[T any] struct {
	slots    []T
	assign   func(dst *T, src T) // Copies src into an owned slot (deep copy for slices).
	slotInit func(slot *T)       // Pre-sizes a slot during Prepare.

	read    atomic.Uint64 // Index of the oldest unread item.
	write   atomic.Uint64 // Index of the next slot to fill.
	dropped atomic.Uint64 // Items overwritten before they were read.
}

// Option configures a Fifo at construction.
type Option[T any] func(*Fifo[T])

// WithAssign replaces plain assignment with fn when copying items in and out
// of slots. Queues of reference types use it to keep producer and consumer
// memory disjoint.
//
// Pull reads a slot before claiming it, concurrently with a Push that may be
// dropping that slot. fn must therefore write within the slot's existing
// storage: pre-size slots with WithSlotInit and keep items within that size,
// so a slot's slice headers never change under a reader.
func WithAssign[T any](fn func(dst *T, src T)) Option[T] {
	return func(f *Fifo[T]) { f.assign = fn }
}

// WithSlotInit runs fn on every slot during Prepare, typically to
// pre-allocate backing storage so Push stays allocation free.
func WithSlotInit[T any](fn func(slot *T)) Option[T] {
	return func(f *Fifo[T]) { f.slotInit = fn }
}

// New creates a queue and prepares it with the given capacity.
func New[T any](capacity int, opts ...Option[T]) (*Fifo[T], error) {
	f := &Fifo[T]{
		assign: func(dst *T, src T) { *dst = src },
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.Prepare(capacity); err != nil {
		return nil, err
	}
	return f, nil
}

// NewSliceFifo creates a queue of slices whose slots are pre-allocated with
// the given length. Items are copied element-wise into the slot storage.
func NewSliceFifo[E any](capacity, length int) (*Fifo[[]E], error) {
	return New(capacity,
		WithAssign(CopySlice[E]),
		WithSlotInit(func(slot *[]E) { *slot = make([]E, length) }),
	)
}

// CopySlice copies src into *dst, reusing the existing backing array when it
// is large enough.
func CopySlice[E any](dst *[]E, src []E) {
	*dst = append((*dst)[:0], src...)
}

// Prepare resizes the queue to capacity slots and discards all contents.
func (f *Fifo[T]) Prepare(capacity int) error {
	if capacity < MinCapacity {
		return fmt.Errorf("%w, got %d", ErrCapacity, capacity)
	}

	f.slots = make([]T, capacity)
	if f.slotInit != nil {
		for i := range f.slots {
			f.slotInit(&f.slots[i])
		}
	}

	f.read.Store(0)
	f.write.Store(0)
	f.dropped.Store(0)
	return nil
}

// Push copies item into the next slot. If the queue is full the oldest unread
// item is dropped to make room.
func (f *Fifo[T]) Push(item T) {
	n := uint64(len(f.slots))
	w := f.write.Load()

	for {
		r := f.read.Load()
		if w-r < n {
			break
		}
		if f.read.CompareAndSwap(r, r+1) {
			f.dropped.Add(1)
			break
		}
		// The consumer claimed the oldest item first; re-check fullness.
	}

	f.assign(&f.slots[w%n], item)
	f.write.Store(w + 1)
}

// Pull copies the oldest unread item into out and reports true. When nothing
// is available it returns false and leaves out untouched.
func (f *Fifo[T]) Pull(out *T) bool {
	n := uint64(len(f.slots))

	for {
		r := f.read.Load()
		if r == f.write.Load() {
			return false
		}

		f.assign(out, f.slots[r%n])
		if f.read.CompareAndSwap(r, r+1) {
			return true
		}
	}
}

// NumAvailableForReading returns the number of unread items. The value is
// approximate while the producer is pushing.
func (f *Fifo[T]) NumAvailableForReading() int {
	r := f.read.Load()
	w := f.write.Load()
	if w <= r {
		return 0
	}
	if avail := w - r; avail < uint64(len(f.slots)) {
		return int(avail)
	}
	return len(f.slots)
}

// Capacity returns the number of slots.
func (f *Fifo[T]) Capacity() int {
	return len(f.slots)
}

// Dropped returns how many items were overwritten before being read since the
// last Prepare.
func (f *Fifo[T]) Dropped() uint64 {
	return f.dropped.Load()
}
