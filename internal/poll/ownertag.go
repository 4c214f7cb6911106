// File: internal/poll/ownertag.go
// Author: momentics <momentics@gmail.com>
//
// OwnerTag identifies which kind of owner a poll record belongs to (§4.2,
// §9 "Tagged discriminated owner"). The original design packs a raw
// pointer with a tag so dispatch can avoid an interface vtable call on
// possibly-stale, recycled memory. Go's interface values are already
// memory-safe — a zeroed OwnerTag's owner field is a typed nil, never a
// dangling pointer — so the risk a tagged raw pointer defends against in a
// systems language doesn't apply here the same way; what does still apply
// is *logical* staleness (a record whose owner has been deinit'd), which
// ignore_updates and the Deactivated sentinel guard against regardless.
// OwnerTag therefore keeps the closed kind enumeration and the tag-then-
// assert dispatch discipline, holding the owner as a plain `any` rather
// than unsafe.Pointer.

package poll

// OwnerKind enumerates every owner kind the dispatch table knows about, in a
// fixed, ordered table. The table is closed: the poll layer never
// reflectively discovers new owner kinds.
type OwnerKind uint8

const (
	// OwnerDeactivated is the reserved slot for a record that has been
	// deinit'd and is sitting in (or past) the deferred-free quarantine.
	OwnerDeactivated OwnerKind = iota
	OwnerReadPipe
	OwnerWriteSink
	OwnerProcess
	OwnerDNSResolver
	OwnerMachport
	OwnerScriptOutput
	OwnerScriptPid
)

var ownerKindNames = [...]string{
	OwnerDeactivated:  "Deactivated",
	OwnerReadPipe:     "ReadPipe",
	OwnerWriteSink:    "WriteSink",
	OwnerProcess:      "Process",
	OwnerDNSResolver:  "DNSResolver",
	OwnerMachport:     "Machport",
	OwnerScriptOutput: "ScriptOutput",
	OwnerScriptPid:    "ScriptPid",
}

// TypeNameFromTag returns the owner kind's name, or "" if k is out of range.
func TypeNameFromTag(k OwnerKind) string {
	if int(k) < 0 || int(k) >= len(ownerKindNames) {
		return ""
	}
	return ownerKindNames[k]
}

// OwnerTag is the tagged owner value stored on every Record.
type OwnerTag struct {
	owner any
	kind  OwnerKind
}

// deactivatedTag is the value a record's owner is set to on deinit. Its
// payload is deliberately not nil so a debug assertion can tell "owner is
// the Deactivated sentinel" apart from "owner was left as a zero value by
// a bug elsewhere".
var deactivatedTag = OwnerTag{owner: deactivatedSentinel{}, kind: OwnerDeactivated}

type deactivatedSentinel struct{}

// InitOwnerTag builds a tagged owner value for ptr under the given kind.
func InitOwnerTag[T any](kind OwnerKind, ptr *T) OwnerTag {
	return OwnerTag{owner: ptr, kind: kind}
}

// Tag returns the owner kind discriminator.
func (t OwnerTag) Tag() OwnerKind { return t.kind }

// IsDeactivated reports whether t is the Deactivated sentinel.
func (t OwnerTag) IsDeactivated() bool { return t.kind == OwnerDeactivated }

// As decodes t's payload as *T. In debug builds (see ownertag_debug.go) it
// asserts the caller's expected kind matches t.Tag(); in release builds it
// trusts the caller, matching the teacher's habit of paying for assertions
// only in debug builds.
func As[T any](t OwnerTag, expect OwnerKind) *T {
	assertOwnerKind(t, expect)
	v, _ := t.owner.(*T)
	return v
}
