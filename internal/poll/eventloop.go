// File: internal/poll/eventloop.go
// Author: momentics <momentics@gmail.com>
//
// event_loop_kind (§9 "Abstract VM") lets a Record remember which host loop
// allocated it without holding a direct *Store/api.Loop pair on every
// record — two host loops ("js", the full VM, and "mini", the package
// manager's minimal loop) can coexist, each with its own Store, and a
// record routes teardown back to the right one purely from a one-byte tag.

package poll

import (
	"fmt"

	"github.com/momentics/hioload-poll/api"
)

// EventLoopKind discriminates which host loop owns a record.
type EventLoopKind uint8

const (
	EventLoopJS EventLoopKind = iota
	EventLoopMini
	numEventLoopKinds
)

// binding pairs a host loop with the store that owns its records.
type binding struct {
	loop  api.Loop
	store *Store
}

var loopRegistry [numEventLoopKinds]*binding

// RegisterEventLoop associates a host loop and its record store with kind.
// Re-registering the same kind replaces the previous binding; this is only
// ever expected at process startup, never mid-flight.
func RegisterEventLoop(kind EventLoopKind, loop api.Loop, store *Store) {
	loopRegistry[kind] = &binding{loop: loop, store: store}
}

// resolveBinding looks up the loop/store pair for kind, panicking if no
// loop of that kind was ever registered — a record can only exist with a
// kind that came from a live Store.Acquire call on a registered loop.
func resolveBinding(kind EventLoopKind) *binding {
	b := loopRegistry[kind]
	if b == nil {
		panic(fmt.Sprintf("poll: no event loop registered for kind %d", kind))
	}
	return b
}
