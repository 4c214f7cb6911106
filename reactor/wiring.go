// File: reactor/wiring.go
// Author: momentics <momentics@gmail.com>
//
// NewPollSystem is the minimal wiring every embedder needs: a platform
// Loop plus its matching Store, registered together under one
// EventLoopKind so Record.Deinit can resolve both from a bare record.

package reactor

import (
	"github.com/momentics/hioload-poll/internal/poll"
)

// NewPollSystem builds a Loop and a Store sized to hiveCapacity, registers
// the pair under kind, and returns both ready for use.
func NewPollSystem(kind poll.EventLoopKind, hiveCapacity uint64, edgeTriggered bool) (*Loop, *poll.Store, error) {
	loop, err := NewLoop()
	if err != nil {
		return nil, nil, err
	}
	store := poll.NewStore(kind, hiveCapacity)
	store.EdgeTriggered = edgeTriggered
	poll.RegisterEventLoop(kind, loop, store)
	return loop, store, nil
}
