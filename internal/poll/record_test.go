//go:build linux

package poll_test

import (
	"os"
	"testing"

	"github.com/momentics/hioload-poll/internal/poll"
	"github.com/momentics/hioload-poll/reactor"
	"github.com/momentics/hioload-poll/testpoll"
)

func newTestSystem(t *testing.T) (*reactor.Loop, *poll.Store) {
	t.Helper()
	loop, store, err := reactor.NewPollSystem(poll.EventLoopJS, 16, false)
	if err != nil {
		t.Fatalf("NewPollSystem: %v", err)
	}
	t.Cleanup(func() { loop.Close() })
	return loop, store
}

func TestRecordRegisterDispatchUnregister(t *testing.T) {
	loop, store := newTestSystem(t)

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	defer pw.Close()

	rec := store.Acquire()
	owner := &testpoll.FakeReadPipeOwner{}
	rec.Bind(int(pr.Fd()), poll.InitOwnerTag(poll.OwnerReadPipe, owner))
	rec.SetKeepsEventLoopAlive(true)

	if err := rec.Register(loop, poll.FlagPollReadable, false); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if loop.NumPolls() != 1 {
		t.Fatalf("NumPolls = %d, want 1", loop.NumPolls())
	}
	if loop.ActiveCount() != 1 {
		t.Fatalf("ActiveCount = %d, want 1 (keep-alive held)", loop.ActiveCount())
	}
	if !rec.Flags().IsWatching() {
		t.Fatal("record should be watching exactly one poll_* kind")
	}

	if _, err := pw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}
	n, err := loop.RunOnce(1000)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("RunOnce reported %d ready events, want 1", n)
	}
	if owner.ReadyCalls != 1 {
		t.Fatalf("owner.Ready called %d times, want 1", owner.ReadyCalls)
	}

	if err := rec.Unregister(loop, false); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if loop.NumPolls() != 0 || loop.ActiveCount() != 0 {
		t.Fatalf("after Unregister: NumPolls=%d ActiveCount=%d", loop.NumPolls(), loop.ActiveCount())
	}
}

func TestRecordDeinitQuarantinesAgainstStaleDispatch(t *testing.T) {
	loop, store := newTestSystem(t)

	pr, pw, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer pr.Close()
	defer pw.Close()

	rec := store.Acquire()
	owner := &testpoll.FakeReadPipeOwner{}
	rec.Bind(int(pr.Fd()), poll.InitOwnerTag(poll.OwnerReadPipe, owner))
	if err := rec.Register(loop, poll.FlagPollReadable, false); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := pw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}

	if err := rec.Deinit(); err != nil {
		t.Fatalf("Deinit: %v", err)
	}
	if store.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1 (quarantined)", store.PendingCount())
	}

	// The pipe is already readable, but Deinit already unregistered the fd
	// from the kernel, so RunOnce sees no ready events for it at all; the
	// after-tick callback RunOnce fires unconditionally still drains the
	// deferred-free queue (§4.3, §5 end-of-tick).
	n, err := loop.RunOnce(0)
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Fatalf("RunOnce reported %d ready events after unregister, want 0", n)
	}
	if owner.ReadyCalls != 0 {
		t.Fatalf("owner.Ready called after Deinit, want 0 calls, got %d", owner.ReadyCalls)
	}
	if store.PendingCount() != 0 {
		t.Fatalf("PendingCount after tick = %d, want 0", store.PendingCount())
	}
}

func TestRecordCanRefOnFreshRecord(t *testing.T) {
	store := poll.NewStore(poll.EventLoopMini, 4)
	rec := store.Acquire()
	if !rec.CanRef() {
		t.Fatal("fresh record should be able to ref")
	}
}
