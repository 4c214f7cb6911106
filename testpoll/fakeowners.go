// File: testpoll/fakeowners.go
// Author: momentics <momentics@gmail.com>
//
// One fake per api.*Owner interface in api/poll.go, each recording its
// call arguments instead of acting on them — grounded on the teacher's
// fake-owner conventions (plain struct, counters, last-call fields).

package testpoll

import "github.com/momentics/hioload-poll/api"

// FakeReadPipeOwner implements api.ReadPipeOwner.
type FakeReadPipeOwner struct {
	ReadyCalls int
	LastSize   int64
	LastHup    bool
}

var _ api.ReadPipeOwner = (*FakeReadPipeOwner)(nil)

func (o *FakeReadPipeOwner) Ready(sizeOrOffset int64, hasHup bool) {
	o.ReadyCalls++
	o.LastSize = sizeOrOffset
	o.LastHup = hasHup
}

// FakeWriteSinkOwner implements api.WriteSinkOwner.
type FakeWriteSinkOwner struct {
	PollCalls    int
	LastSize     int64
	LastReserved int64
}

var _ api.WriteSinkOwner = (*FakeWriteSinkOwner)(nil)

func (o *FakeWriteSinkOwner) OnPoll(sizeOrOffset int64, reserved int64) {
	o.PollCalls++
	o.LastSize = sizeOrOffset
	o.LastReserved = reserved
}

// FakeProcessOwner implements api.ProcessOwner.
type FakeProcessOwner struct {
	ExitCalls int
}

var _ api.ProcessOwner = (*FakeProcessOwner)(nil)

func (o *FakeProcessOwner) OnExitNotificationTask() { o.ExitCalls++ }

// FakeDNSOwner implements api.DNSOwner.
type FakeDNSOwner struct {
	PollCalls int
	LastRecord any
}

var _ api.DNSOwner = (*FakeDNSOwner)(nil)

func (o *FakeDNSOwner) OnDNSPoll(record any) {
	o.PollCalls++
	o.LastRecord = record
}

// FakeMachportOwner implements api.MachportOwner.
type FakeMachportOwner struct {
	ChangeCalls int
}

var _ api.MachportOwner = (*FakeMachportOwner)(nil)

func (o *FakeMachportOwner) OnMachportChange() { o.ChangeCalls++ }

// FakeScriptOutputOwner implements api.ScriptOutputOwner.
type FakeScriptOutputOwner struct {
	PollCalls int
	LastSize  int64
}

var _ api.ScriptOutputOwner = (*FakeScriptOutputOwner)(nil)

func (o *FakeScriptOutputOwner) OnPoll(sizeOrOffset int64) {
	o.PollCalls++
	o.LastSize = sizeOrOffset
}

// FakeScriptPidOwner implements api.ScriptPidOwner.
type FakeScriptPidOwner struct {
	UpdateCalls int
	LastSize    int64
}

var _ api.ScriptPidOwner = (*FakeScriptPidOwner)(nil)

func (o *FakeScriptPidOwner) OnProcessUpdate(sizeOrOffset int64) {
	o.UpdateCalls++
	o.LastSize = sizeOrOffset
}
