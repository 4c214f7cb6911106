package pool_test

import (
	"testing"

	"github.com/momentics/hioload-poll/pool"
)

type widget struct{ n int }

func TestHiveAcquireReleaseReuse(t *testing.T) {
	h := pool.NewHive[widget](4, func() *widget { return &widget{} })

	w1 := h.Acquire()
	w1.n = 42
	h.Release(w1)

	w2 := h.Acquire()
	if w2 != w1 {
		t.Error("expected Acquire to reuse the released widget")
	}
}

func TestHiveStatsTracksAllocAndFree(t *testing.T) {
	h := pool.NewHive[widget](4, func() *widget { return &widget{} })

	a := h.Acquire()
	b := h.Acquire()
	stats := h.Stats()
	if stats.TotalAlloc != 2 || stats.InUse != 2 {
		t.Fatalf("after 2 acquires: %+v", stats)
	}

	h.Release(a)
	h.Release(b)
	stats = h.Stats()
	if stats.TotalFree != 2 || stats.InUse != 0 {
		t.Fatalf("after releasing both: %+v", stats)
	}
}

func TestHiveOverflowDropsSilently(t *testing.T) {
	h := pool.NewHive[widget](2, func() *widget { return &widget{} })

	h.Release(&widget{n: 1})
	h.Release(&widget{n: 2})
	h.Release(&widget{n: 3}) // ring is full; dropped rather than blocking

	stats := h.Stats()
	if stats.TotalFree != 2 {
		t.Fatalf("TotalFree = %d, want 2 (third release should drop)", stats.TotalFree)
	}
}
