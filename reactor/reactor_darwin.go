//go:build darwin

// File: reactor/reactor_darwin.go
// Author: momentics <momentics@gmail.com>
//
// Darwin kqueue-based api.Loop implementation. The teacher repo ships no
// Darwin poller of its own; this is grounded on the kqueue shape of an
// eventloop package's Darwin poller elsewhere in the retrieval pack
// (golang.org/x/sys/unix.Kqueue), extended with the Ext[0] generation slot
// and KEVENT_FLAG_ERROR_EVENTS that package never needed. Waiting for
// events goes through poll.Kevent64Syscall/poll.Kevent64 rather than
// golang.org/x/sys/unix's older Kevent/Kevent_t pair, since that pair has
// no generation slot and types Udata as *byte instead of uint64.

package reactor

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/api"
	"github.com/momentics/hioload-poll/internal/poll"
)

// Loop is the Darwin api.Loop implementation: a kqueue fd plus the shared
// liveness/ready-poll bookkeeping in loopCore.
type Loop struct {
	loopCore
	kq  int
	raw [maxEventsPerTick]poll.Kevent64
}

// maxEventsPerTick bounds one kevent64 batch.
const maxEventsPerTick = 256

// NewLoop creates a fresh kqueue instance.
func NewLoop() (*Loop, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	return &Loop{loopCore: newLoopCore(), kq: kq}, nil
}

// Fd returns the kqueue fd.
func (l *Loop) Fd() int { return l.kq }

// Close releases the kqueue fd.
func (l *Loop) Close() error { return unix.Close(l.kq) }

// packMask packs a kqueue filter + flags pair into api.ReadyPoll.Mask: the
// filter in the low 16 bits, the flags in the high 16, per the decoding
// contract documented on api.ReadyPoll and consumed by
// internal/poll's dispatchPlatformEvent.
func packMask(filter int16, flags uint16) uint32 {
	return uint32(uint16(filter)) | uint32(flags)<<16
}

// RunOnce waits up to timeoutMs (-1 blocks indefinitely, 0 polls) for
// ready descriptors, dispatches each through poll.OnTick, then drains the
// after-tick callback (§4.7, §5 end-of-tick).
func (l *Loop) RunOnce(timeoutMs int) (int, error) {
	var ts *unix.Timespec
	if timeoutMs >= 0 {
		ts = &unix.Timespec{
			Sec:  int64(timeoutMs / 1000),
			Nsec: int64(timeoutMs%1000) * 1000000,
		}
	}

	n, err := poll.Kevent64Syscall(l.kq, nil, l.raw[:], 0, ts)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	l.readyPolls = l.readyPolls[:0]
	for i := 0; i < n; i++ {
		kev := &l.raw[i]
		l.readyPolls = append(l.readyPolls, api.ReadyPoll{
			TaggedPointer: uintptr(kev.Udata),
			Mask:          packMask(kev.Filter, kev.Flags),
			Data:          kev.Data,
			Generation:    kev.Ext[0],
		})
	}
	for i := range l.readyPolls {
		l.currentReadyPoll = i
		poll.OnTick(l)
	}
	l.endTick()
	return n, nil
}
