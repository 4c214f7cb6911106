// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral bookkeeping shared by the epoll and kqueue host loops:
// the two-axis liveness counters and ready-poll bookkeeping the spec
// describes as the external Loop contract (api.Loop). Continues the
// teacher's platform-neutral-interface-plus-platform-file layout
// (reactor.go + reactor_linux.go), generalized from the old EventReactor/
// Event pair to the richer api.Loop surface internal/poll depends on.

package reactor

import (
	"sync/atomic"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/internal/concurrency"
)

// loopCore implements every api.Loop method except Fd, which only a
// platform file can supply (the epoll_create or kqueue fd itself).
// numPolls is loop-thread-only per §5; activeCount and pendingUnref use
// atomics since the *Concurrently KeepAlive paths call them off-thread.
//
// async is the loop's cross-thread completion bridge (§5 "cross-thread
// operations are restricted to..."): a worker thread doing blocking work on
// a record's behalf (DNS resolution, waiting on a subprocess) posts its
// result via PostAsync instead of touching the record directly, and the
// loop drains it at the next tick boundary, back on the loop thread.
type loopCore struct {
	numPolls         int
	activeCount      atomic.Int64
	pendingUnref     atomic.Int64
	readyPolls       []api.ReadyPoll
	currentReadyPoll int
	afterTick        func()
	async            *concurrency.EventLoop
}

// newLoopCore builds a loopCore with its async bridge ready to receive
// posts; call from each platform's NewLoop.
func newLoopCore() loopCore {
	return loopCore{async: concurrency.NewEventLoop(32, 256)}
}

// PostAsync hands ev to the loop's async bridge for delivery to every
// registered async handler at the next tick boundary. Safe to call from any
// thread.
func (l *loopCore) PostAsync(ev concurrency.Event) bool { return l.async.Post(ev) }

// RegisterAsyncHandler registers h to receive every event posted via
// PostAsync once the loop drains them.
func (l *loopCore) RegisterAsyncHandler(h concurrency.EventHandler) {
	l.async.RegisterHandler(h)
}

func (l *loopCore) NumPolls() int         { return l.numPolls }
func (l *loopCore) AddNumPolls(delta int) { l.numPolls += delta }
func (l *loopCore) AddActive(n int)       { l.activeCount.Add(int64(n)) }
func (l *loopCore) SubActive(n int)       { l.activeCount.Add(-int64(n)) }
func (l *loopCore) ActiveCount() int64    { return l.activeCount.Load() }
func (l *loopCore) Ref()                  { l.AddActive(1) }
func (l *loopCore) Unref()                { l.SubActive(1) }
func (l *loopCore) RefConcurrently()      { l.activeCount.Add(1) }
func (l *loopCore) UnrefConcurrently()    { l.activeCount.Add(-1) }

func (l *loopCore) IncrementPendingUnrefCounter(n int64) { l.pendingUnref.Add(n) }

func (l *loopCore) ReadyPolls() []api.ReadyPoll { return l.readyPolls }
func (l *loopCore) CurrentReadyPoll() int       { return l.currentReadyPoll }

func (l *loopCore) SetAfterTick(fn func()) { l.afterTick = fn }
func (l *loopCore) AfterTick() func()      { return l.afterTick }

// endTick applies any KeepAlive.UnrefOnNextTick deferrals accumulated this
// tick, then fires and clears the after-tick callback exactly once (§4.3,
// §5 "A record placed in the deferred-free queue... is returned to the
// hive no earlier than the after-tick callback of tick N").
func (l *loopCore) endTick() {
	if n := l.pendingUnref.Swap(0); n != 0 {
		l.activeCount.Add(-n)
	}
	l.async.DrainOnce()
	if l.afterTick != nil {
		cb := l.afterTick
		l.afterTick = nil
		cb()
	}
}
