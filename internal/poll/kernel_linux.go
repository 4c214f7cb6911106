//go:build linux

// File: internal/poll/kernel_linux.go
// Author: momentics <momentics@gmail.com>
//
// C7's Linux binding: translates register/unregister into epoll_ctl calls,
// continuing reactor/reactor_linux.go's use of golang.org/x/sys/unix. Pure
// and stateless beyond the epoll fd it is handed through api.Loop.

package poll

import (
	"unsafe"

	"github.com/momentics/hioload-poll/api"
	"golang.org/x/sys/unix"
)

// coerceFlag is the Linux process-as-readable coercion (§9): the kernel
// exposes pidfd readiness as ordinary EPOLLIN, so a process watch is
// registered and decoded exactly like a read watch.
func coerceFlag(flag Flags) Flags {
	if flag == FlagPollProcess {
		return FlagPollReadable
	}
	return flag
}

// epollMask picks the event mask for flag per §4.5 step 2. edgeTriggered
// carries forward the teacher reactor_linux.go's unconditional EPOLLET,
// now gated behind Store.EdgeTriggered (ambient config, off by default so
// register()'s level-triggered default per spec still holds).
func epollMask(flag Flags, oneShot, edgeTriggered bool) uint32 {
	var mask uint32
	switch flag {
	case FlagPollReadable:
		mask = unix.EPOLLIN | unix.EPOLLHUP
	case FlagPollWritable:
		mask = unix.EPOLLOUT | unix.EPOLLHUP | unix.EPOLLERR
	}
	if oneShot {
		mask |= unix.EPOLLONESHOT
	}
	if edgeTriggered {
		mask |= unix.EPOLLET
	}
	return mask
}

// taggedPointer packs a record's address into epoll_data's 8-byte union. On
// Linux there is no generation slot in epoll_data, so the deferred-free
// quarantine alone defends against stale dispatch (§9 "Generation numbers").
func taggedPointer(r *Record) uint64 {
	return uint64(uintptr(unsafe.Pointer(r)))
}

// recordFromTaggedPointer reverses taggedPointer, used by the dispatch
// entry point to recover the *Record behind a ready poll's opaque value.
func recordFromTaggedPointer(tp uintptr) *Record {
	return (*Record)(unsafe.Pointer(tp))
}

// eventData returns a pointer to the 8-byte epoll_data union, which begins
// at EpollEvent.Fd (Fd and the trailing Pad field together form the union).
func eventData(e *unix.EpollEvent) *uint64 {
	return (*uint64)(unsafe.Pointer(&e.Fd))
}

func platformRegister(loop api.Loop, r *Record, flag Flags, oneShot bool) error {
	op := unix.EPOLL_CTL_ADD
	if r.flags.Any(pollMask) || r.flags.Any(FlagNeedsRearm) {
		op = unix.EPOLL_CTL_MOD
	}
	edge := resolveBinding(r.eventLoopKind).store.EdgeTriggered
	event := unix.EpollEvent{
		Events: epollMask(flag, oneShot, edge),
	}
	*eventData(&event) = taggedPointer(r)

	if err := unix.EpollCtl(loop.Fd(), op, r.fd, &event); err != nil {
		return api.NewEpollCtlError(epollOpName(op), err.(unix.Errno))
	}
	return nil
}

func platformUnregister(loop api.Loop, r *Record) error {
	if err := unix.EpollCtl(loop.Fd(), unix.EPOLL_CTL_DEL, r.fd, nil); err != nil {
		return api.NewEpollCtlError("EPOLL_CTL_DEL", err.(unix.Errno))
	}
	return nil
}

// dispatchPlatformEvent implements §4.7 step 3 for the Linux backend: epoll
// cannot supply a byte count, so the owner always sees 0 for size_or_offset.
func dispatchPlatformEvent(r *Record, rp api.ReadyPoll) {
	r.UpdateFlags(FromEpollEvent(rp.Mask))
	r.OnUpdate(0)
}

func epollOpName(op int) string {
	switch op {
	case unix.EPOLL_CTL_ADD:
		return "EPOLL_CTL_ADD"
	case unix.EPOLL_CTL_MOD:
		return "EPOLL_CTL_MOD"
	default:
		return "EPOLL_CTL_DEL"
	}
}
