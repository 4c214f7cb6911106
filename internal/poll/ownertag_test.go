package poll_test

import (
	"testing"

	"github.com/momentics/hioload-poll/internal/poll"
)

type fakeReadPipe struct{ pings int }

func TestOwnerTagRoundTrip(t *testing.T) {
	owner := &fakeReadPipe{}
	tag := poll.InitOwnerTag(poll.OwnerReadPipe, owner)

	if tag.Tag() != poll.OwnerReadPipe {
		t.Fatalf("Tag() = %v, want OwnerReadPipe", tag.Tag())
	}
	if tag.IsDeactivated() {
		t.Fatal("freshly initialized tag reported Deactivated")
	}
	if got := poll.As[fakeReadPipe](tag, poll.OwnerReadPipe); got != owner {
		t.Fatalf("As[T] round-trip returned %p, want %p", got, owner)
	}
}

func TestOwnerTagDebugAssertMismatch(t *testing.T) {
	owner := &fakeReadPipe{}
	tag := poll.InitOwnerTag(poll.OwnerReadPipe, owner)

	poll.DebugAssertions = true
	defer func() { poll.DebugAssertions = false }()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on owner-kind mismatch under DebugAssertions")
		}
	}()
	poll.As[fakeReadPipe](tag, poll.OwnerWriteSink)
}

func TestTypeNameFromTag(t *testing.T) {
	if got := poll.TypeNameFromTag(poll.OwnerDNSResolver); got != "DNSResolver" {
		t.Fatalf("TypeNameFromTag(OwnerDNSResolver) = %q", got)
	}
	if got := poll.TypeNameFromTag(poll.OwnerKind(200)); got != "" {
		t.Fatalf("TypeNameFromTag(out-of-range) = %q, want empty", got)
	}
}
