package rrtos

import (
	"context"
	"testing"
)

func TestChangePriorityResortsReadyQueueImmediately(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	b, _ := sched.CreateTask([]byte{0x01}, nil)
	c, _ := sched.CreateTask([]byte{0x01}, nil)
	// All three at DefaultPriority, FIFO order: a, b, c.

	// Promote c ahead of both a and b. If the queue is not immediately
	// re-sorted, c stays physically last despite outranking its peers.
	sched.ChangePriority(c.VM(), 1)

	if !sched.ready.sorted() {
		t.Fatalf("ready queue must remain sorted after ChangePriority")
	}
	if sched.ready.head != c {
		t.Fatalf("expected c to become the ready-queue head after promotion, got %v", sched.ready.head)
	}

	got := collect(&sched.ready)
	if len(got) != 3 || got[0] != c || got[1] != a || got[2] != b {
		t.Fatalf("expected order [c,a,b], got %v", got)
	}
}

// When ChangePriority targets the currently-Running task, it re-sorts the
// task itself and marks it Ready, so reinsertAfterRunLocked later sees a
// non-Running task and leaves it alone.
func TestChangePriorityOnRunningTaskMarksItReady(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	eng.Script(a.VM(), yieldSteps(3))
	a.state = Running

	sched.ChangePriority(a.VM(), 10)

	if a.State() != Ready {
		t.Fatalf("expected ChangePriority to mark the running task Ready, got %s", a.State())
	}
	if a.Priority() != 10 {
		t.Fatalf("expected priority 10, got %d", a.Priority())
	}
}

func TestSuspendResumeRoundTrip(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	sched.SuspendTask(a.VM())
	if a.State() != Suspended {
		t.Fatalf("expected Suspended, got %s", a.State())
	}
	if sched.ready.len() != 0 {
		t.Fatalf("expected ready queue empty after suspend")
	}

	sched.ResumeTask(a.VM())
	if a.State() != Ready {
		t.Fatalf("expected Ready after resume, got %s", a.State())
	}
	if sched.suspended.len() != 0 {
		t.Fatalf("expected suspended queue empty after resume")
	}
	if sched.ready.head != a {
		t.Fatalf("expected a back on the ready queue")
	}
}

func TestResumeTaskUnknownHandleIsNoOp(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	sched.ResumeTask(a.VM()) // a is Ready, not Suspended: must be a no-op
	if a.State() != Ready {
		t.Fatalf("expected ResumeTask on a non-suspended handle to be a no-op, got %s", a.State())
	}
}

func TestSleepMsZeroWakesOnNextTick(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	sched.SleepMs(a.VM(), 0)
	if a.State() != Waiting {
		t.Fatalf("expected Waiting immediately after SleepMs(0), got %s", a.State())
	}

	sched.Tick()
	if a.State() != Ready {
		t.Fatalf("expected Ready after one tick, got %s", a.State())
	}
}

func TestRelinquishClearsTimesliceAndYieldsOnNextDispatch(t *testing.T) {
	eng := newTraceEngine()
	sched := newTestScheduler(t, eng)

	a, _ := sched.CreateTask([]byte{0x01}, nil)
	b, _ := sched.CreateTask([]byte{0x01}, nil)
	eng.Script(a.VM(), yieldSteps(1))
	eng.Script(b.VM(), yieldSteps(1))

	sched.Relinquish(a.VM())
	if a.timeslice != 0 {
		t.Fatalf("expected Relinquish to clear the caller's timeslice")
	}

	ctx, cancel := context.WithCancel(context.Background())
	eng.stopAfter(2, cancel)
	_, _ = sched.RunCooperative(ctx)

	trace := eng.Trace()
	if len(trace) < 2 {
		t.Fatalf("expected at least 2 dispatches, got %d", len(trace))
	}
	if trace[0] != a.VM() || trace[1] != b.VM() {
		t.Fatalf("expected a to run once then yield to b, got %v", trace)
	}
}
