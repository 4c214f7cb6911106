// File: internal/poll/store.go
// Author: momentics <momentics@gmail.com>
//
// Store is C6: a hive-backed pool of poll records plus the deferred-free
// queue drained after each loop tick (§4.3). The pending-free FIFO is
// backed by github.com/eapache/queue — declared in the teacher's go.mod
// but never imported there; this is its first use, replacing the spec's
// intrusive singly-linked pending list with the teacher-adjacent pack's
// own queue type.

package poll

import (
	"github.com/eapache/queue"
	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/pool"
)

// DefaultHiveCapacity is the steady-state record count before Acquire
// falls back to allocating fresh records (must stay a power of two, per
// pool.RingBuffer's constraint).
const DefaultHiveCapacity = 1024

// Store owns one hive and one pending-free FIFO for one event loop kind.
type Store struct {
	kind    EventLoopKind
	hive    *pool.Hive[Record]
	pending *queue.Queue

	// EdgeTriggered is ambient config (not a spec feature): when true, the
	// Linux backend ORs EPOLLET into every registration, carrying forward
	// reactor_linux.go's only epoll behavior. Level-triggered by default,
	// matching spec.md §4.5 literally.
	EdgeTriggered bool

	armed bool
}

// NewStore builds a Store for kind with the given hive capacity.
func NewStore(kind EventLoopKind, hiveCapacity uint64) *Store {
	return &Store{
		kind:    kind,
		hive:    pool.NewHive[Record](hiveCapacity, func() *Record { return &Record{} }),
		pending: queue.New(),
	}
}

// Acquire implements §4.3 acquire(): a record from the hive, reset to a
// fresh generation and InvalidFD so reuse is safe.
func (s *Store) Acquire() *Record {
	r := s.hive.Acquire()
	r.reset(s.kind)
	return r
}

// release implements §4.3 release(record, ctx, ever_registered). A record
// that never made it to the kernel skips the quarantine entirely; one that
// did is marked ignore_updates, queued, and arms the loop's after-tick slot
// — idempotently, since only one store claims that slot per loop.
func (s *Store) release(r *Record, loop api.Loop, everRegistered bool) {
	if !everRegistered {
		s.hive.Release(r)
		return
	}
	r.flags = r.flags.Union(FlagIgnoreUpdates)
	r.nextToFree = nil // the FIFO link is unused now that eapache/queue owns ordering
	s.pending.Add(r)

	if !s.armed {
		if DebugAssertions && loop.AfterTick() != nil {
			panic("poll: after-tick slot already claimed by another store")
		}
		s.armed = true
		loop.SetAfterTick(s.processDeferredFrees)
	}
}

// processDeferredFrees implements §4.3: drains the FIFO, returning each
// record to the hive. Idempotent — draining an empty queue is a no-op.
func (s *Store) processDeferredFrees() {
	for s.pending.Length() > 0 {
		r := s.pending.Remove().(*Record)
		s.hive.Release(r)
	}
	s.armed = false
}

// PendingCount reports the current deferred-free queue depth, exposed for
// the poll.deferred_free.pending metric.
func (s *Store) PendingCount() int { return s.pending.Length() }
