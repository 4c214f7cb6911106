package poll_test

import (
	"testing"

	"github.com/momentics/hioload-poll/internal/poll"
)

func TestFlagsUnionRemove(t *testing.T) {
	f := poll.Flags(0).Union(poll.FlagReadable).Union(poll.FlagWritable)
	if !f.Contains(poll.FlagReadable) || !f.Contains(poll.FlagWritable) {
		t.Fatal("expected both bits set")
	}
	f = f.Remove(poll.FlagWritable)
	if f.Contains(poll.FlagWritable) {
		t.Fatal("expected FlagWritable cleared")
	}
	if !f.Contains(poll.FlagReadable) {
		t.Fatal("unrelated bit disturbed by Remove")
	}
}

func TestFlagsAny(t *testing.T) {
	f := poll.FlagHup
	if !f.Any(poll.FlagHup | poll.FlagEOF) {
		t.Fatal("expected Any true when one bit overlaps")
	}
	if f.Any(poll.FlagEOF) {
		t.Fatal("expected Any false when no bit overlaps")
	}
}

func TestFlagsIsWatching(t *testing.T) {
	cases := []struct {
		f    poll.Flags
		want bool
	}{
		{0, false},
		{poll.FlagPollReadable, true},
		{poll.FlagPollWritable, true},
		{poll.FlagPollReadable | poll.FlagPollWritable, false},
		{poll.FlagPollProcess | poll.FlagReadable, true},
	}
	for _, c := range cases {
		if got := c.f.IsWatching(); got != c.want {
			t.Errorf("Flags(%b).IsWatching() = %v, want %v", c.f, got, c.want)
		}
	}
}
