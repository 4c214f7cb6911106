// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Generic cross-thread event queue used as the poll subsystem's async
// completion bridge: a ring-buffer-backed, handler-dispatching event loop a
// worker thread can post to without touching loop-thread-only state
// directly (reactor.loopCore embeds one as its PostAsync/RegisterAsyncHandler
// bridge, drained once per host-loop tick via DrainOnce).
package concurrency
