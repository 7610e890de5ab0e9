// SPDX-License-Identifier: EPL-2.0

package stream

import "sync/atomic"

// Ring is a fixed-capacity circular window over preallocated slots.
// Slots are created once by Allocate and reused forever after; PushBack and
// PopFront only move the window, they never allocate or free element storage.
//
// The window cursors are atomics so that a single mutating goroutine and any
// number of reading goroutines can share the ring without a lock. Mutations
// (Allocate, PushBack, PopFront) must be serialized by the caller; Len, Empty,
// Full, Front, Back and At are safe to call concurrently with them.
type Ring[T any] struct {
	data []T

	start atomic.Int64
	size  atomic.Int64
}

// NewRing returns a ring with capacity slots, each initialized from fill.
// A nil fill leaves the slots as zero values.
func NewRing[T any](capacity int, fill func() T) *Ring[T] {
	r := &Ring[T]{}
	r.Allocate(capacity, fill)
	return r
}

// Allocate discards the current contents, resizes the backing storage to
// exactly capacity slots initialized from fill, and resets the ring to empty.
// Not safe while other goroutines hold pointers into the old storage.
func (r *Ring[T]) Allocate(capacity int, fill func() T) {
	if capacity < 0 {
		capacity = 0
	}

	r.data = make([]T, capacity)
	if fill != nil {
		for i := range r.data {
			r.data[i] = fill()
		}
	}

	r.start.Store(0)
	r.size.Store(0)
}

// PushBack advances the write cursor by one slot. When the ring is full the
// oldest slot is implicitly retired, so the window keeps the most recent
// Cap() entries. The caller overwrites the new slot through Back().
func (r *Ring[T]) PushBack() {
	n := int64(len(r.data))
	if n == 0 {
		return
	}

	if r.size.Load() == n {
		r.start.Store((r.start.Load() + 1) % n)
		return
	}

	r.size.Add(1)
}

// PopFront retires the oldest slot. No-op on an empty ring.
//
// The size is shrunk before the start cursor moves so that a concurrent
// reader never observes a window covering a retired slot.
func (r *Ring[T]) PopFront() {
	n := int64(len(r.data))
	if n == 0 || r.size.Load() == 0 {
		return
	}

	r.size.Add(-1)
	r.start.Store((r.start.Load() + 1) % n)
}

// Front returns the oldest slot, or nil when the ring is empty.
func (r *Ring[T]) Front() *T {
	if r.size.Load() == 0 {
		return nil
	}
	return &r.data[r.start.Load()]
}

// Back returns the newest slot, or nil when the ring is empty.
func (r *Ring[T]) Back() *T {
	sz := r.size.Load()
	if sz == 0 {
		return nil
	}
	n := int64(len(r.data))
	return &r.data[(r.start.Load()+sz-1)%n]
}

// At returns the slot at logical position i, counted from the oldest element.
// Returns nil when i is outside [0, Len()).
func (r *Ring[T]) At(i int) *T {
	sz := r.size.Load()
	if i < 0 || int64(i) >= sz {
		return nil
	}
	n := int64(len(r.data))
	return &r.data[(r.start.Load()+int64(i))%n]
}

// Len reports the number of slots currently inside the window.
func (r *Ring[T]) Len() int { return int(r.size.Load()) }

// Cap reports the total number of preallocated slots.
func (r *Ring[T]) Cap() int { return len(r.data) }

func (r *Ring[T]) Empty() bool { return r.size.Load() == 0 }

func (r *Ring[T]) Full() bool {
	return len(r.data) > 0 && r.size.Load() == int64(len(r.data))
}
