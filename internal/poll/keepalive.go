// File: internal/poll/keepalive.go
// Author: momentics <momentics@gmail.com>
//
// KeepAlive is the three-state latch that decides whether one poll record
// contributes a unit to the host loop's active count (§4.1). It is kept
// separate from registration so an fd can stay registered (tracked at all)
// without holding the process open — e.g. a stdin FIFO the user unref'd.

package poll

import "github.com/momentics/hioload-poll/api"

// keepAliveState is the Keep-Alive cell's own tri-state machine.
type keepAliveState uint8

const (
	keepAliveInactive keepAliveState = iota
	keepAliveActive
	keepAliveDone
)

// KeepAlive tracks whether its owner currently holds the loop open. All
// operations are infallible; a KeepAlive in the done state silently no-ops
// forever, including ref().
type KeepAlive struct {
	state keepAliveState
}

// Ref transitions inactive -> active and calls loop.Ref(); a no-op from any
// other state.
func (k *KeepAlive) Ref(loop api.Loop) {
	if k.state != keepAliveInactive {
		return
	}
	k.state = keepAliveActive
	loop.Ref()
}

// Unref transitions active -> inactive and calls loop.Unref(); a no-op from
// any other state.
func (k *KeepAlive) Unref(loop api.Loop) {
	if k.state != keepAliveActive {
		return
	}
	k.state = keepAliveInactive
	loop.Unref()
}

// RefConcurrently is Ref's thread-safe counterpart; the caller need not be
// on the loop thread.
func (k *KeepAlive) RefConcurrently(loop api.Loop) {
	if k.state != keepAliveInactive {
		return
	}
	k.state = keepAliveActive
	loop.RefConcurrently()
}

// UnrefConcurrently is Unref's thread-safe counterpart.
func (k *KeepAlive) UnrefConcurrently(loop api.Loop) {
	if k.state != keepAliveActive {
		return
	}
	k.state = keepAliveInactive
	loop.UnrefConcurrently()
}

// UnrefOnNextTick has the same eventual effect as Unref, but the actual
// subActive happens at the next tick boundary: this prevents the loop from
// exiting prematurely while a callback that just triggered the unref is
// still executing.
func (k *KeepAlive) UnrefOnNextTick(loop api.Loop) {
	if k.state != keepAliveActive {
		return
	}
	k.state = keepAliveInactive
	loop.IncrementPendingUnrefCounter(1)
}

// Disable forces an Unref, then permanently disables all future operations
// (including Ref) by entering the done state.
func (k *KeepAlive) Disable(loop api.Loop) {
	k.Unref(loop)
	k.state = keepAliveDone
}

// IsActive reports whether the cell currently contributes to the loop's
// active count.
func (k *KeepAlive) IsActive() bool { return k.state == keepAliveActive }
