//go:build linux

// File: internal/poll/flags_linux.go
// Author: momentics <momentics@gmail.com>

package poll

import "golang.org/x/sys/unix"

// FromEpollEvent translates a raw epoll event mask into Flags readiness
// bits: IN -> readable, OUT -> writable, ERR -> eof, HUP -> hup.
func FromEpollEvent(events uint32) Flags {
	var f Flags
	if events&unix.EPOLLIN != 0 {
		f |= FlagReadable
	}
	if events&unix.EPOLLOUT != 0 {
		f |= FlagWritable
	}
	if events&unix.EPOLLERR != 0 {
		f |= FlagEOF
	}
	if events&unix.EPOLLHUP != 0 {
		f |= FlagHup
	}
	return f
}
