//go:build darwin

// File: internal/poll/kernel_darwin.go
// Author: momentics <momentics@gmail.com>
//
// C7's BSD binding: translates register/unregister into kevent64 calls.
// golang.org/x/sys/unix wraps the older kevent()/Kevent_t pair only (no
// generation slot, Udata typed *byte) and exposes no Kevent64 function —
// every kqueue user elsewhere in the retrieval pack (poller_darwin.go,
// core/poller/kqueue.go) sticks to that older pair for the same reason.
// The spec's generation slot needs kevent64_s's Ext[0], which only the raw
// SYS_KEVENT64 syscall exposes, so this file hand-rolls the struct and
// calls it directly via unix.Syscall9.

package poll

import (
	"unsafe"

	"github.com/momentics/hioload-poll/api"
	"golang.org/x/sys/unix"
)

// keventFlagErrorEvents requests that failed changes be posted back into
// the same changelist entry instead of failing the whole syscall (§4.6).
const keventFlagErrorEvents = 0x000002

// zeroTimespec is reused for every non-blocking change submission (§4.6).
var zeroTimespec unix.Timespec

// Kevent64 mirrors the kernel's struct kevent64_s (<sys/event.h>): 8+2+2+4
// +8+8+16 bytes, no implicit padding. golang.org/x/sys/unix.Kevent_t has no
// Ext field and types Udata as *byte, so the 64-bit generation carrier the
// spec names (§4.6, §9 "Generation numbers") has no home there.
type Kevent64 struct {
	Ident  uint64
	Filter int16
	Flags  uint16
	Fflags uint32
	Data   int64
	Udata  uint64
	Ext    [2]uint64
}

// Kevent64Syscall invokes SYS_KEVENT64 directly: golang.org/x/sys/unix has
// the syscall number but no Go wrapper for it (only for the 6-argument
// kevent()). The kernel signature takes 7 arguments, so Syscall9 is used
// with the trailing two left zero. Exported so reactor.Loop's RunOnce can
// issue the wait-for-events call with an empty changelist.
func Kevent64Syscall(kq int, changes, events []Kevent64, flags uint32, timeout *unix.Timespec) (int, error) {
	var changePtr, eventPtr unsafe.Pointer
	if len(changes) > 0 {
		changePtr = unsafe.Pointer(&changes[0])
	}
	if len(events) > 0 {
		eventPtr = unsafe.Pointer(&events[0])
	}
	r1, _, errno := unix.Syscall9(
		unix.SYS_KEVENT64,
		uintptr(kq),
		uintptr(changePtr),
		uintptr(len(changes)),
		uintptr(eventPtr),
		uintptr(len(events)),
		uintptr(flags),
		uintptr(unsafe.Pointer(timeout)),
		0,
		0,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(r1), nil
}

// coerceFlag is the identity on BSD: EVFILT_PROC is its own filter, unlike
// Linux which has no process-specific epoll filter to coerce away from.
func coerceFlag(flag Flags) Flags { return flag }

func kqueueFilter(flag Flags) int16 {
	switch flag {
	case FlagPollReadable:
		return unix.EVFILT_READ
	case FlagPollWritable:
		return unix.EVFILT_WRITE
	case FlagPollProcess:
		return unix.EVFILT_PROC
	case FlagPollMachport:
		return evfiltMachport
	default:
		return 0
	}
}

// taggedPointer packs a record's address, decoded on the way back in by
// recordFromTaggedPointer.
func taggedPointer(r *Record) uint64 {
	return uint64(uintptr(unsafe.Pointer(r)))
}

func recordFromTaggedPointer(tp uintptr) *Record {
	return (*Record)(unsafe.Pointer(tp))
}

func platformRegister(loop api.Loop, r *Record, flag Flags, oneShot bool) error {
	var evFlags uint16 = unix.EV_ADD
	if oneShot {
		evFlags |= unix.EV_ONESHOT
	}
	fflags := uint32(0)
	if flag == FlagPollProcess {
		fflags = unix.NOTE_EXIT
	}

	kev := Kevent64{
		Ident:  uint64(r.fd),
		Filter: kqueueFilter(flag),
		Flags:  evFlags,
		Fflags: fflags,
		Udata:  taggedPointer(r),
	}
	kev.Ext[0] = r.generation

	return submitChange(loop, &kev, "kevent64(ADD)")
}

func platformUnregister(loop api.Loop, r *Record) error {
	var flag Flags
	for _, f := range [...]Flags{FlagPollReadable, FlagPollWritable, FlagPollProcess, FlagPollMachport} {
		if r.flags.Any(f) {
			flag = f
			break
		}
	}
	kev := Kevent64{
		Ident:  uint64(r.fd),
		Filter: kqueueFilter(flag),
		Flags:  unix.EV_DELETE,
		Udata:  taggedPointer(r),
	}
	kev.Ext[0] = r.generation
	return submitChange(loop, &kev, "kevent64(DELETE)")
}

// submitChange issues a single-entry changelist submission with
// KEVENT_FLAG_ERROR_EVENTS, retrying on EINTR and translating an EV_ERROR
// changelist entry into a structured error (§4.5 step 4, §4.6).
func submitChange(loop api.Loop, kev *Kevent64, op string) error {
	changes := []Kevent64{*kev}
	events := make([]Kevent64, 1)

	for {
		n, err := Kevent64Syscall(loop.Fd(), changes, events, keventFlagErrorEvents, &zeroTimespec)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return api.NewKEventError(op, err.(unix.Errno))
		}
		if n > 0 && events[0].Flags&unix.EV_ERROR != 0 && events[0].Data != 0 {
			return api.NewKEventError(op, unix.Errno(events[0].Data))
		}
		return nil
	}
}

// dispatchPlatformEvent implements §4.7 step 3/4 for the BSD backend: the
// caller packs filter into Mask's low 16 bits and the kqueue flags into the
// high 16, per api.ReadyPoll's doc comment. In debug builds, a generation
// mismatch against the recycled-record detector is asserted rather than
// silently dispatched (§4.7 step 4, §9 "Generation numbers").
func dispatchPlatformEvent(r *Record, rp api.ReadyPoll) {
	filter := int16(rp.Mask & 0xffff)
	evFlags := uint16(rp.Mask >> 16)
	if DebugAssertions && rp.Generation != r.generation {
		panic("poll: stale kqueue event dispatched against recycled record")
	}
	r.UpdateFlags(FromKQueueEvent(filter, evFlags))
	r.OnUpdate(rp.Data)
}
