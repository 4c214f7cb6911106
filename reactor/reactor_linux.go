//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based api.Loop implementation, continuing the teacher's
// linuxReactor (golang.org/x/sys/unix.EpollCreate1/EpollCtl/EpollWait) but
// now surfacing the full Loop contract instead of the old bare Register/
// Wait/Close trio.

package reactor

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/internal/poll"
)

// maxEventsPerTick bounds one EpollWait batch, matching the teacher's
// preallocated-buffer habit (see the Darwin poller in the retrieval pack).
const maxEventsPerTick = 256

// Loop is the Linux api.Loop implementation: an epoll fd plus the shared
// liveness/ready-poll bookkeeping in loopCore.
type Loop struct {
	loopCore
	epfd int
	raw  [maxEventsPerTick]unix.EpollEvent
}

// NewLoop creates a fresh epoll instance.
func NewLoop() (*Loop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &Loop{loopCore: newLoopCore(), epfd: epfd}, nil
}

// Fd returns the epoll_create fd.
func (l *Loop) Fd() int { return l.epfd }

// Close releases the epoll fd.
func (l *Loop) Close() error { return unix.Close(l.epfd) }

// rawEpollData reads back the tagged pointer packed into epoll_data by
// internal/poll's kernel binding (EpollEvent.Fd + Pad form the 8-byte
// union).
func rawEpollData(e *unix.EpollEvent) uint64 {
	return *(*uint64)(unsafe.Pointer(&e.Fd))
}

// RunOnce waits up to timeoutMs (-1 blocks indefinitely, 0 polls) for
// ready descriptors, dispatches each through poll.OnTick, then drains the
// after-tick callback (§4.7, §5 end-of-tick).
func (l *Loop) RunOnce(timeoutMs int) (int, error) {
	n, err := unix.EpollWait(l.epfd, l.raw[:], timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	l.readyPolls = l.readyPolls[:0]
	for i := 0; i < n; i++ {
		l.readyPolls = append(l.readyPolls, api.ReadyPoll{
			TaggedPointer: uintptr(rawEpollData(&l.raw[i])),
			Mask:          l.raw[i].Events,
		})
	}
	for i := range l.readyPolls {
		l.currentReadyPoll = i
		poll.OnTick(l)
	}
	l.endTick()
	return n, nil
}
