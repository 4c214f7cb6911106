//go:build linux

package reactor_test

import (
	"testing"

	"github.com/momentics/hioload-poll/internal/concurrency"
	"github.com/momentics/hioload-poll/reactor"
)

type countingAsyncHandler struct{ calls int }

func (h *countingAsyncHandler) HandleEvent(concurrency.Event) { h.calls++ }

func TestNewLoopFd(t *testing.T) {
	l, err := reactor.NewLoop()
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	defer l.Close()

	if l.Fd() < 0 {
		t.Fatalf("Fd() = %d, want a valid epoll fd", l.Fd())
	}
}

func TestLoopRefUnrefActiveCount(t *testing.T) {
	l, err := reactor.NewLoop()
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	defer l.Close()

	if l.ActiveCount() != 0 {
		t.Fatalf("ActiveCount on fresh loop = %d, want 0", l.ActiveCount())
	}
	l.Ref()
	l.Ref()
	if l.ActiveCount() != 2 {
		t.Fatalf("ActiveCount after two Refs = %d, want 2", l.ActiveCount())
	}
	l.Unref()
	if l.ActiveCount() != 1 {
		t.Fatalf("ActiveCount after Unref = %d, want 1", l.ActiveCount())
	}
}

func TestLoopRunOnceWithNoReadyFdsTimesOut(t *testing.T) {
	l, err := reactor.NewLoop()
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	defer l.Close()

	n, err := l.RunOnce(0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("RunOnce on an empty loop reported %d ready events, want 0", n)
	}
}

func TestLoopAfterTickFiresOnce(t *testing.T) {
	l, err := reactor.NewLoop()
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	defer l.Close()

	calls := 0
	l.SetAfterTick(func() { calls++ })
	l.RunOnce(0)
	l.RunOnce(0)
	if calls != 1 {
		t.Fatalf("after-tick callback fired %d times, want exactly 1", calls)
	}
}

func TestLoopDrainsAsyncBridgeEachTick(t *testing.T) {
	l, err := reactor.NewLoop()
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}
	defer l.Close()

	h := &countingAsyncHandler{}
	l.RegisterAsyncHandler(h)

	if !l.PostAsync(concurrency.Event{Data: "dns resolved"}) {
		t.Fatal("PostAsync rejected a post on a fresh bridge")
	}
	if h.calls != 0 {
		t.Fatal("handler should not fire before the next tick drains it")
	}
	if _, err := l.RunOnce(0); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if h.calls != 1 {
		t.Fatalf("handler fired %d times after one tick, want 1", h.calls)
	}
}
