// File: testpoll/fakeloop.go
// Author: momentics <momentics@gmail.com>
//
// FakeLoop is an in-memory api.Loop, grounded on the teacher's fake-package
// conventions (a plain struct with call-count fields standing in for
// kernel state) rather than a mock framework — matching the teacher's own
// dependency footprint (no testify, no generated mocks).

package testpoll

import "github.com/momentics/hioload-poll/api"

// FakeLoop records every counter mutation so a test can assert on exact
// call sequences instead of only final values.
type FakeLoop struct {
	fd int

	NumPollsValue int
	Active        int64

	RefCalls                 int
	UnrefCalls               int
	RefConcurrentlyCalls     int
	UnrefConcurrentlyCalls   int
	PendingUnref             int64

	Polls       []api.ReadyPoll
	Current     int
	AfterTickFn func()
}

var _ api.Loop = (*FakeLoop)(nil)

// NewFakeLoop returns a zeroed FakeLoop with a placeholder fd.
func NewFakeLoop() *FakeLoop { return &FakeLoop{fd: -1} }

func (f *FakeLoop) Fd() int { return f.fd }

func (f *FakeLoop) NumPolls() int         { return f.NumPollsValue }
func (f *FakeLoop) AddNumPolls(delta int) { f.NumPollsValue += delta }

func (f *FakeLoop) AddActive(n int)    { f.Active += int64(n) }
func (f *FakeLoop) SubActive(n int)    { f.Active -= int64(n) }
func (f *FakeLoop) ActiveCount() int64 { return f.Active }

func (f *FakeLoop) Ref()   { f.RefCalls++; f.AddActive(1) }
func (f *FakeLoop) Unref() { f.UnrefCalls++; f.SubActive(1) }

func (f *FakeLoop) RefConcurrently()   { f.RefConcurrentlyCalls++; f.Active++ }
func (f *FakeLoop) UnrefConcurrently() { f.UnrefConcurrentlyCalls++; f.Active-- }

func (f *FakeLoop) IncrementPendingUnrefCounter(n int64) { f.PendingUnref += n }

func (f *FakeLoop) ReadyPolls() []api.ReadyPoll { return f.Polls }
func (f *FakeLoop) CurrentReadyPoll() int       { return f.Current }

func (f *FakeLoop) SetAfterTick(fn func()) { f.AfterTickFn = fn }
func (f *FakeLoop) AfterTick() func()      { return f.AfterTickFn }

// EndTick applies pending unrefs and fires the after-tick callback once,
// mirroring reactor's real loopCore.endTick for tests simulating a full
// loop iteration.
func (f *FakeLoop) EndTick() {
	if f.PendingUnref != 0 {
		f.Active -= f.PendingUnref
		f.PendingUnref = 0
	}
	if f.AfterTickFn != nil {
		cb := f.AfterTickFn
		f.AfterTickFn = nil
		cb()
	}
}
