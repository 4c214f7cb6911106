//go:build darwin

// File: internal/poll/flags_darwin.go
// Author: momentics <momentics@gmail.com>

package poll

import "golang.org/x/sys/unix"

// evfiltMachport is EVFILT_MACHPORT from <sys/event.h> (-8). Not exported
// by golang.org/x/sys/unix, so it is pinned here rather than pulled in via
// an extra dependency — the single BSD-only filter the spec names that the
// ecosystem package doesn't carry.
const evfiltMachport = -8

// FromKQueueEvent translates a kqueue filter/flags pair into Flags readiness
// bits, per the translation table in §4.4.
func FromKQueueEvent(filter int16, evFlags uint16) Flags {
	var f Flags
	eof := evFlags&unix.EV_EOF != 0
	switch filter {
	case unix.EVFILT_READ:
		f |= FlagReadable
		if eof {
			f |= FlagHup
		}
	case unix.EVFILT_WRITE:
		f |= FlagWritable
		if eof {
			f |= FlagHup
		}
	case unix.EVFILT_PROC:
		f |= FlagProcess
	case evfiltMachport:
		f |= FlagMachport
	}
	return f
}
