// File: internal/poll/record.go
// Author: momentics <momentics@gmail.com>
//
// Record is the per-fd registration entity (§3, §4.5): fd + flags + owner
// tag + generation + free-list link. All mutation happens on the loop
// thread; the *Concurrently KeepAlive paths are the only sanctioned
// cross-thread entry points, and they never touch a Record's fields
// directly — only the loop's atomic counters.

package poll

import (
	"sync/atomic"

	"github.com/momentics/hioload-poll/api"
)

// InvalidFD is the well-known "not bound" sentinel (§3).
const InvalidFD = -1

// maxGenerationNumber is the process-wide generation source (§9 "Global
// mutable state"). It is only ever advanced from Store.Acquire, which the
// concurrency model restricts to the loop thread, so a plain atomic
// suffices without further synchronization.
var maxGenerationNumber atomic.Uint64

func nextGeneration() uint64 {
	return maxGenerationNumber.Add(1)
}

// Record is the per-fd registration entity.
type Record struct {
	fd            int
	flags         Flags
	owner         OwnerTag
	generation    uint64
	nextToFree    *Record // vestigial: ordering is now owned by Store's eapache/queue FIFO
	eventLoopKind EventLoopKind
	keepAlive     KeepAlive
}

// Fd reports the record's bound file descriptor, or InvalidFD if unbound.
func (r *Record) Fd() int { return r.fd }

// Flags returns the record's current flag set.
func (r *Record) Flags() Flags { return r.flags }

// Generation returns the record's current generation tag.
func (r *Record) Generation() uint64 { return r.generation }

// Owner returns the record's owner tag.
func (r *Record) Owner() OwnerTag { return r.owner }

// reset zero-fills a record for reuse from the hive, per §4.3 acquire()'s
// "zeroed sufficiently that reuse is safe". A fresh generation is assigned
// here, not at register time, so a stale event referencing the record's
// previous life never matches the newly acquired one.
func (r *Record) reset(kind EventLoopKind) {
	r.fd = InvalidFD
	r.flags = 0
	r.owner = deactivatedTag
	r.generation = nextGeneration()
	r.nextToFree = nil
	r.eventLoopKind = kind
	r.keepAlive = KeepAlive{}
}

// Bind attaches fd and owner to a freshly-acquired record.
func (r *Record) Bind(fd int, owner OwnerTag) {
	r.fd = fd
	r.owner = owner
}

// SetKeepsEventLoopAlive marks whether a successful register() should also
// Ref the Keep-Alive cell, i.e. whether this fd should hold the process
// open. Callers set this before Register; it has no effect afterward.
func (r *Record) SetKeepsEventLoopAlive(v bool) {
	if v {
		r.flags = r.flags.Union(FlagKeepsEventLoopAlive)
	} else {
		r.flags = r.flags.Remove(FlagKeepsEventLoopAlive)
	}
}

// CanRef reports whether the record may still start a fresh Keep-Alive
// ref. Per §9 Open Question (a), the original flag name "disable" does not
// exist in this flag enumeration; FlagClosed is the intended check, so
// CanRef reads that instead of reproducing the discrepancy.
func (r *Record) CanRef() bool {
	return !r.flags.Any(FlagClosed)
}

// Register implements §4.5 register(loop, flag, one_shot).
func (r *Record) Register(loop api.Loop, flag Flags, oneShot bool) error {
	if r.fd == InvalidFD {
		panic("poll: register on unbound record")
	}
	if oneShot {
		r.flags = r.flags.Union(FlagOneShot)
	}

	// Linux has no pidfd-readiness filter distinct from ordinary readability
	// (§9 "Process-as-readable on Linux"); coerceFlag is the identity on BSD.
	flag = coerceFlag(flag)

	if err := platformRegister(loop, r, flag, oneShot); err != nil {
		if r.flags.Any(FlagHasIncrementedPollCount) {
			loop.AddNumPolls(-1)
			r.flags = r.flags.Remove(FlagHasIncrementedPollCount)
		}
		if r.flags.Any(FlagHasIncrementedActiveCount) {
			r.keepAlive.Unref(loop)
			r.flags = r.flags.Remove(FlagHasIncrementedActiveCount)
		}
		return err
	}

	if !r.flags.Any(FlagHasIncrementedPollCount) {
		loop.AddNumPolls(1)
		r.flags = r.flags.Union(FlagHasIncrementedPollCount)
	}
	if r.flags.Any(FlagKeepsEventLoopAlive) && !r.flags.Any(FlagHasIncrementedActiveCount) {
		r.keepAlive.Ref(loop)
		r.flags = r.flags.Union(FlagHasIncrementedActiveCount)
	}
	r.flags = r.flags.Union(flag).Remove(FlagNeedsRearm).Union(FlagWasEverRegistered)
	return nil
}

// Unregister implements §4.5 unregister(loop, force_unregister).
func (r *Record) Unregister(loop api.Loop, forceUnregister bool) error {
	if !r.flags.Any(pollMask) {
		return nil
	}
	if r.flags.Any(FlagNeedsRearm) && !forceUnregister {
		r.flags = r.flags.Remove(pollMask)
		r.drainCounters(loop)
		return nil
	}
	err := platformUnregister(loop, r)
	r.flags = r.flags.Remove(FlagOneShot | FlagNeedsRearm | pollMask)
	r.drainCounters(loop)
	return err
}

// drainCounters decrements the loop's poll count (once) and keep-alive
// count (once if held), the bookkeeping shared by both unregister paths.
func (r *Record) drainCounters(loop api.Loop) {
	if r.flags.Any(FlagHasIncrementedPollCount) {
		loop.AddNumPolls(-1)
		r.flags = r.flags.Remove(FlagHasIncrementedPollCount)
	}
	if r.flags.Any(FlagHasIncrementedActiveCount) {
		r.keepAlive.Unref(loop)
		r.flags = r.flags.Remove(FlagHasIncrementedActiveCount)
	}
}

// UpdateFlags implements §4.4 "on update": clear readiness bits only, then
// union in newFlags.
func (r *Record) UpdateFlags(newFlags Flags) {
	r.flags = r.flags.updateReadiness(newFlags)
}

// OnUpdate implements §4.5 onUpdate(size_or_offset): rearm bookkeeping plus
// dispatch to the owner's callback shape.
func (r *Record) OnUpdate(sizeOrOffset int64) {
	if r.flags.Any(FlagOneShot) && !r.flags.Any(FlagNeedsRearm) {
		r.flags = r.flags.Union(FlagNeedsRearm)
	}
	dispatchToOwner(r, sizeOrOffset)
}

// Deinit implements §4.5 deinit(): resolve loop/store via event_loop_kind,
// unregister, deactivate, and hand the record to the store's deferred-free
// path. This is the ordinary owner-initiated path; DeinitForceUnregister is
// the one path that bypasses the needs_rearm short-circuit (§9 Open
// Question (c)).
func (r *Record) Deinit() error {
	return r.deinitWith(false)
}

// DeinitForceUnregister is the force_unregister=true variant of Deinit.
func (r *Record) DeinitForceUnregister() error {
	return r.deinitWith(true)
}

func (r *Record) deinitWith(forceUnregister bool) error {
	b := resolveBinding(r.eventLoopKind)
	everRegistered := r.flags.Any(FlagWasEverRegistered)
	err := r.Unregister(b.loop, forceUnregister)
	r.owner = deactivatedTag
	r.flags = 0
	r.fd = InvalidFD
	b.store.release(r, b.loop, everRegistered)
	return err
}
