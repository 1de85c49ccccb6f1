package rrtos

import "testing"

func TestTaskStateString(t *testing.T) {
	cases := map[TaskState]string{
		Dormant:       "dormant",
		Ready:         "ready",
		Running:       "running",
		Waiting:       "waiting",
		Suspended:     "suspended",
		TaskState(99): "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("TaskState(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestWaitReasonString(t *testing.T) {
	cases := map[WaitReason]string{
		WaitNone:  "none",
		WaitSleep: "sleep",
		WaitMutex: "mutex",
	}
	for reason, want := range cases {
		if got := reason.String(); got != want {
			t.Errorf("WaitReason(%d).String() = %q, want %q", reason, got, want)
		}
	}
}

func TestTCBCheckInvariantsPanicsOnSelfReferentialNext(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on tcb.next aliasing itself")
		}
	}()
	tcb := &TCB{state: Ready, timeslice: 1}
	tcb.next = tcb
	tcb.checkInvariants()
}

func TestTCBCheckInvariantsPanicsOnTimesliceWhileDormant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on nonzero timeslice while Dormant")
		}
	}()
	tcb := &TCB{state: Dormant, timeslice: 1}
	tcb.checkInvariants()
}

func TestTCBCheckInvariantsPanicsOnWaitReasonOutsideWaiting(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on a wait reason set outside Waiting")
		}
	}()
	tcb := &TCB{state: Ready, reason: WaitSleep}
	tcb.checkInvariants()
}

func TestTCBCheckInvariantsPanicsOnVMMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when vm handle presence disagrees with Dormant state")
		}
	}()
	tcb := &TCB{state: Dormant, vm: struct{}{}}
	tcb.checkInvariants()
}

func TestTCBCheckInvariantsAcceptsValidDormantState(t *testing.T) {
	tcb := &TCB{state: Dormant}
	tcb.checkInvariants() // must not panic
}

func TestTCBAccessors(t *testing.T) {
	tcb := &TCB{id: 7, state: Ready, priority: 42, reason: WaitNone, vm: struct{}{}}
	if tcb.ID() != 7 {
		t.Errorf("ID() = %d, want 7", tcb.ID())
	}
	if tcb.State() != Ready {
		t.Errorf("State() = %v, want Ready", tcb.State())
	}
	if tcb.Priority() != 42 {
		t.Errorf("Priority() = %d, want 42", tcb.Priority())
	}
	if tcb.VM() == nil {
		t.Errorf("VM() = nil, want non-nil")
	}
	if tcb.Reason() != WaitNone {
		t.Errorf("Reason() = %v, want WaitNone", tcb.Reason())
	}
}
