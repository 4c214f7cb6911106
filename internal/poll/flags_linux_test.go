//go:build linux

package poll_test

import (
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-poll/internal/poll"
)

func TestFromEpollEvent(t *testing.T) {
	f := poll.FromEpollEvent(unix.EPOLLIN | unix.EPOLLHUP)
	if !f.Contains(poll.FlagReadable) || !f.Contains(poll.FlagHup) {
		t.Fatalf("unexpected translation: %v", f)
	}
	f = poll.FromEpollEvent(unix.EPOLLOUT | unix.EPOLLERR)
	if !f.Contains(poll.FlagWritable) || !f.Contains(poll.FlagEOF) {
		t.Fatalf("unexpected translation: %v", f)
	}
}
