// File: internal/poll/dispatch.go
// Author: momentics <momentics@gmail.com>
//
// C8: the dispatch entry point invoked once per ready kernel event. OnTick
// is this module's equivalent of the spec's C-callable
// Bun__internal_dispatch_ready_poll symbol — called by the host loop once
// per entry in its ready_polls array.

package poll

import (
	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/control"
)

// DispatchMetrics is the optional metrics sink dispatch reports dropped
// events to (poll.dispatch.dropped); delivered events are not counted. Nil
// by default; RegisterMetrics points it at a registry.
var DispatchMetrics *control.MetricsRegistry

// OnTick implements §4.7: decode the tagged pointer behind the loop's
// current ready poll, check the quarantine bit, and forward to the
// platform-specific flag translation and owner dispatch.
func OnTick(loop api.Loop) {
	idx := loop.CurrentReadyPoll()
	polls := loop.ReadyPolls()
	if idx < 0 || idx >= len(polls) {
		return
	}
	rp := polls[idx]

	r := recordFromTaggedPointer(uintptr(rp.TaggedPointer))
	if r == nil {
		return
	}
	// Step 2: deferred-free quarantine. A record sitting in (or past) the
	// pending-free FIFO has ignore_updates set and must never be dispatched.
	if r.flags.Any(FlagIgnoreUpdates) {
		bumpDropped()
		return
	}
	if r.owner.IsDeactivated() {
		bumpDropped()
		return
	}

	dispatchPlatformEvent(r, rp)
}

func bumpDropped() {
	if DispatchMetrics == nil {
		return
	}
	v, _ := DispatchMetrics.GetSnapshot()["poll.dispatch.dropped"].(int64)
	DispatchMetrics.Set("poll.dispatch.dropped", v+1)
}

// dispatchToOwner implements §4.5's dispatch table: owner kind -> callback
// shape. Deactivated or unrecognized tags are counted in
// poll.dispatch.dropped and dropped, never fatal (§7).
func dispatchToOwner(r *Record, sizeOrOffset int64) {
	switch r.owner.kind {
	case OwnerReadPipe:
		if o, ok := r.owner.owner.(api.ReadPipeOwner); ok {
			o.Ready(sizeOrOffset, r.flags.Any(FlagHup))
		}
	case OwnerWriteSink:
		if o, ok := r.owner.owner.(api.WriteSinkOwner); ok {
			o.OnPoll(sizeOrOffset, 0)
		}
	case OwnerProcess:
		if o, ok := r.owner.owner.(api.ProcessOwner); ok {
			o.OnExitNotificationTask()
		}
	case OwnerDNSResolver:
		if o, ok := r.owner.owner.(api.DNSOwner); ok {
			o.OnDNSPoll(r)
		}
	case OwnerMachport:
		if o, ok := r.owner.owner.(api.MachportOwner); ok {
			o.OnMachportChange()
		}
	case OwnerScriptOutput:
		if o, ok := r.owner.owner.(api.ScriptOutputOwner); ok {
			o.OnPoll(sizeOrOffset)
		}
	case OwnerScriptPid:
		if o, ok := r.owner.owner.(api.ScriptPidOwner); ok {
			o.OnProcessUpdate(sizeOrOffset)
		}
	default:
		bumpDropped()
	}
}
