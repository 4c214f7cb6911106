//go:build linux

package poll_test

import (
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/control"
	"github.com/momentics/hioload-poll/internal/poll"
	"github.com/momentics/hioload-poll/testpoll"
)

func taggedPointerOf(r *poll.Record) uintptr {
	return uintptr(unsafe.Pointer(r))
}

func TestOnTickDispatchesToReadPipeOwner(t *testing.T) {
	store := poll.NewStore(poll.EventLoopMini, 4)
	rec := store.Acquire()
	owner := &testpoll.FakeReadPipeOwner{}
	rec.Bind(3, poll.InitOwnerTag(poll.OwnerReadPipe, owner))

	loop := testpoll.NewFakeLoop()
	loop.Polls = []api.ReadyPoll{{
		TaggedPointer: taggedPointerOf(rec),
		Mask:          unix.EPOLLIN,
	}}
	loop.Current = 0

	poll.OnTick(loop)

	if owner.ReadyCalls != 1 {
		t.Fatalf("owner.Ready calls = %d, want 1", owner.ReadyCalls)
	}
	if !rec.Flags().Contains(poll.FlagReadable) {
		t.Fatal("record should carry FlagReadable after dispatch")
	}
}

// TestOnTickDropsQuarantinedRecord registers a record against a real loop
// (quarantine only ever arms for a record that was actually registered with
// the kernel), deinits it, then replays its now-stale tagged pointer through
// a synthetic ready-poll to confirm OnTick refuses to dispatch into it.
func TestOnTickDropsQuarantinedRecord(t *testing.T) {
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

	reg := control.NewMetricsRegistry()
	poll.DispatchMetrics = reg
	defer func() { poll.DispatchMetrics = nil }()

	stale := taggedPointerOf(rec)
	if err := rec.Deinit(); err != nil {
		t.Fatalf("Deinit: %v", err)
	}

	if _, err := pw.Write([]byte("x")); err != nil {
		t.Fatal(err)
	}

	fake := testpoll.NewFakeLoop()
	fake.Polls = []api.ReadyPoll{{TaggedPointer: stale, Mask: unix.EPOLLIN}}
	fake.Current = 0

	poll.OnTick(fake)

	if owner.ReadyCalls != 0 {
		t.Fatalf("owner.Ready calls on a quarantined record = %d, want 0", owner.ReadyCalls)
	}
	v, _ := reg.GetSnapshot()["poll.dispatch.dropped"].(int64)
	if v != 1 {
		t.Fatalf("poll.dispatch.dropped = %d, want 1", v)
	}
}
