// File: internal/poll/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Wires the poll subsystem into the teacher's pull-based observability
// surface (control/debug.go, control/metrics.go) rather than adding a push
// logging dependency: poll.count and poll.active_count are read straight
// off the loop on each probe call; poll.deferred_free.pending off the
// store; poll.dispatch.dropped is the one push-style counter, bumped by
// OnTick itself since a probe can't observe a transient drop after the
// fact.

package poll

import (
	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/control"
)

// RegisterMetrics registers named debug probes for loop/store state and
// points OnTick's dropped-dispatch counter at reg.
func RegisterMetrics(debug *control.DebugProbes, reg *control.MetricsRegistry, loop api.Loop, store *Store) {
	DispatchMetrics = reg
	debug.RegisterProbe("poll.count", func() any { return loop.NumPolls() })
	debug.RegisterProbe("poll.active_count", func() any { return loop.ActiveCount() })
	debug.RegisterProbe("poll.deferred_free.pending", func() any { return store.PendingCount() })
}
