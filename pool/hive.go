// File: pool/hive.go
// Author: momentics <momentics@gmail.com>
//
// Hive is a fixed-capacity recycling pool generalized from the teacher's
// slab_pool.go (a buffer-class allocator backed by a lock-free queue, with
// allocation/free counters) to recycle arbitrary pointee types. The poll
// subsystem's Store uses a Hive[Record] for the C6 "slab-like fixed-capacity
// free list" — the object pool pattern carried over, not the buffer domain.

package pool

import "sync/atomic"

// Hive recycles *T values through a bounded ring, falling back to factory
// on an empty pool and silently letting GC reclaim a value that no longer
// fits once the ring is full — mirroring slabPool.Get/Put's queue-or-
// allocate, enqueue-or-release shape.
type Hive[T any] struct {
	ring       *RingBuffer[*T]
	factory    func() *T
	totalAlloc atomic.Uint64
	totalFree  atomic.Uint64
}

// HiveStats reports steady-state allocation pressure.
type HiveStats struct {
	TotalAlloc uint64
	TotalFree  uint64
	InUse      uint64
}

// NewHive builds a Hive with the given power-of-two capacity and factory
// for the cold-start / overflow case.
func NewHive[T any](capacity uint64, factory func() *T) *Hive[T] {
	return &Hive[T]{
		ring:    NewRingBuffer[*T](capacity),
		factory: factory,
	}
}

// Acquire returns a recycled value if one is queued, else a freshly
// allocated one from factory.
func (h *Hive[T]) Acquire() *T {
	if v, ok := h.ring.Dequeue(); ok {
		return v
	}
	h.totalAlloc.Add(1)
	return h.factory()
}

// Release returns v to the hive for reuse. If the ring is at capacity, v is
// dropped (left for the garbage collector) rather than blocking — bursts
// fall back to the general allocator, as the steady-state bound intends.
func (h *Hive[T]) Release(v *T) {
	if h.ring.Enqueue(v) {
		h.totalFree.Add(1)
	}
}

// Stats reports the hive's allocation counters.
func (h *Hive[T]) Stats() HiveStats {
	alloc := h.totalAlloc.Load()
	free := h.totalFree.Load()
	return HiveStats{TotalAlloc: alloc, TotalFree: free, InUse: alloc - free}
}
