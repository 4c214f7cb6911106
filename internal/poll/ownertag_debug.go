// File: internal/poll/ownertag_debug.go
// Author: momentics <momentics@gmail.com>
//
// Debug-checked owner-tag assertions. Disabled by default; tests and
// debug builds flip DebugAssertions on to catch a mismatched As[T] call
// before it manifests as a subtler memory-safety bug downstream.

package poll

import "fmt"

// DebugAssertions gates the owner-kind check in As. Off by default so the
// dispatch hot path pays nothing for it in production.
var DebugAssertions = false

func assertOwnerKind(t OwnerTag, expect OwnerKind) {
	if !DebugAssertions {
		return
	}
	if t.kind != expect {
		panic(fmt.Sprintf("poll: OwnerTag.As: expected kind %s, got %s", TypeNameFromTag(expect), TypeNameFromTag(t.kind)))
	}
}
