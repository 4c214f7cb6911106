// File: internal/poll/flags.go
// Author: momentics <momentics@gmail.com>
//
// Flags is the total bit set describing per-poll-record state: what was
// asked for, what the kernel reported, what kind of fd this is, and the
// record's lifecycle bits (§4.4 of the poll-record design). Platform
// translators (FromEpollEvent, FromKQueueEvent) live in flags_linux.go and
// flags_darwin.go since their inputs are platform-native kernel constants.

package poll

// Flags is a bit set over the fixed enumeration below. Bit positions are
// this implementation's own choice — the set itself is total and must not
// grow without updating both kernel translators.
type Flags uint32

const (
	// What we asked for.
	FlagPollReadable Flags = 1 << iota
	FlagPollWritable
	FlagPollProcess
	FlagPollMachport

	// What the kernel told us.
	FlagReadable
	FlagWritable
	FlagProcess
	FlagEOF
	FlagHup
	FlagMachport

	// What kind of fd.
	FlagFIFO
	FlagTTY

	// Lifecycle.
	FlagOneShot
	FlagNeedsRearm
	FlagHasIncrementedPollCount
	FlagHasIncrementedActiveCount
	FlagClosed
	FlagKeepsEventLoopAlive
	FlagNonblocking
	FlagWasEverRegistered
	FlagIgnoreUpdates
)

// pollMask is the subset of flags asked-for by a caller of register().
const pollMask = FlagPollReadable | FlagPollWritable | FlagPollProcess | FlagPollMachport

// readinessMask is the subset of flags the kernel reports on each event;
// onUpdate clears exactly this mask before unioning in a fresh translation.
const readinessMask = FlagReadable | FlagWritable | FlagProcess | FlagMachport | FlagEOF | FlagHup

// Union returns f with add's bits set.
func (f Flags) Union(add Flags) Flags { return f | add }

// Remove returns f with sub's bits cleared.
func (f Flags) Remove(sub Flags) Flags { return f &^ sub }

// Contains reports whether f has every bit of sub set.
func (f Flags) Contains(sub Flags) bool { return f&sub == sub }

// Any reports whether f has at least one bit of sub set.
func (f Flags) Any(sub Flags) bool { return f&sub != 0 }

// IsWatching reports whether exactly one of the four poll_* kinds is
// currently requested — the invariant asserted whenever needs_rearm is
// clear (§3 Invariants).
func (f Flags) IsWatching() bool {
	n := 0
	for _, b := range [...]Flags{FlagPollReadable, FlagPollWritable, FlagPollProcess, FlagPollMachport} {
		if f&b != 0 {
			n++
		}
	}
	return n == 1
}

// updateReadiness clears the readiness bits only, then unions in fresh,
// preserving poll_* and lifecycle bits (§4.4 "On update").
func (f Flags) updateReadiness(fresh Flags) Flags {
	return f.Remove(readinessMask).Union(fresh & readinessMask)
}
