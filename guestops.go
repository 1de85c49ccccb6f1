package rrtos

import "github.com/kyutech-rt/rrtos/vmengine"

// Each guest-facing operation resolves the calling VM handle to a TCB via
// currentTCBLocked; the caller must be currently running, hence on the
// ready queue. If the handle is not found, the operation is a defensive
// no-op: a stale or forged handle must never be able to corrupt queue
// state.

// SleepMs puts the calling task to sleep for ms milliseconds (one
// hardware tick is 1ms by convention). The task is detached from ready,
// its timeslice cleared, and it is reinserted on the waiting queue with
// reason WaitSleep and wakeupTick = current tick + ms. Its preemption
// flag is then set so the dispatcher regains control at the next safe
// point. Sleeping for 0ms wakes on the very next tick, the same as
// sleeping for 1ms.
func (s *Scheduler) SleepMs(h vmengine.Handle, ms uint32) {
	restore := s.enterCritical()
	defer restore()

	caller := s.currentTCBLocked(h)
	if caller == nil {
		return
	}

	s.ready.remove(caller)
	caller.timeslice = 0
	caller.state = Waiting
	caller.reason = WaitSleep
	caller.wakeupTick = s.tick + ms
	if ms == 0 {
		// Tick increments the counter before comparing, so a wakeup tick
		// equal to the current tick would not match until wraparound.
		caller.wakeupTick++
	}
	s.waiting.insert(caller)

	s.setPreemptionFlag(caller)
	s.logf(LevelDebug, "sleep", caller.id, "sleeping", nil)
}

// Sleep puts the calling task to sleep for seconds, converted to
// milliseconds assuming a 1ms hardware tick. A no-argument "sleep
// forever" variant is intentionally not implemented here; see DESIGN.md
// for the reasoning.
func (s *Scheduler) Sleep(h vmengine.Handle, seconds uint32) {
	s.SleepMs(h, seconds*1000)
}

// Relinquish clears the calling task's timeslice and sets its preemption
// flag. The dispatcher's slice-expiry branch then moves the task behind
// its priority-class peers on its next reselection, yielding the
// remainder of its quantum voluntarily.
func (s *Scheduler) Relinquish(h vmengine.Handle) {
	restore := s.enterCritical()
	defer restore()

	caller := s.currentTCBLocked(h)
	if caller == nil {
		return
	}

	caller.timeslice = 0
	s.setPreemptionFlag(caller)
	s.logf(LevelDebug, "dispatch", caller.id, "relinquished", nil)
}

// ChangePriority sets the calling task's base and effective priority to
// p, clears its timeslice, and immediately re-sorts it into the ready
// queue at its new position — the priority-ordered queue invariant must
// hold at every instant, not just after the task's next dispatch, so this
// cannot wait for reinsertAfterRunLocked to catch up. If the caller was
// Running, it is marked Ready here; reinsertAfterRunLocked then sees a
// non-Running head and leaves it alone, the same pattern SleepMs and
// SuspendTask use for a guest op that moves the running task off its
// queue mid-dispatch.
func (s *Scheduler) ChangePriority(h vmengine.Handle, p uint8) {
	restore := s.enterCritical()
	defer restore()

	caller := s.currentTCBLocked(h)
	if caller == nil {
		return
	}

	wasRunning := caller.state == Running
	s.ready.remove(caller)
	caller.priority = p
	caller.effectivePriority = p
	caller.timeslice = 0
	if wasRunning {
		caller.state = Ready
	}
	s.ready.insert(caller)

	s.setPreemptionFlag(caller)
	s.logf(LevelDebug, "dispatch", caller.id, "priority changed", nil)
}

// SuspendTask detaches the calling task from the ready queue, marks it
// Suspended, and inserts it on the suspended queue. Its preemption flag
// is set so the dispatcher regains control immediately.
func (s *Scheduler) SuspendTask(h vmengine.Handle) {
	restore := s.enterCritical()
	defer restore()

	caller := s.currentTCBLocked(h)
	if caller == nil {
		return
	}

	s.ready.remove(caller)
	caller.timeslice = 0
	caller.state = Suspended
	s.suspended.insert(caller)

	s.setPreemptionFlag(caller)
	s.logf(LevelDebug, "suspend", caller.id, "suspended", nil)
}

// ResumeTask moves the task identified by h from the suspended queue back
// to Ready, replenishing its timeslice (a fresh FIFO arrival among its
// priority peers). Unlike the other guest-facing operations, the target
// of ResumeTask need not be the currently running task, so it resolves h
// against the suspended queue rather than the ready queue. The currently
// running task's preemption flag is set, since the newly-ready task may
// outrank it.
func (s *Scheduler) ResumeTask(h vmengine.Handle) {
	restore := s.enterCritical()
	defer restore()

	var target *TCB
	for t := s.suspended.head; t != nil; t = t.next {
		if t.vm == h {
			target = t
			break
		}
	}
	if target == nil {
		return
	}

	s.setPreemptionFlag(s.runningTCBLocked())

	s.suspended.remove(target)
	target.state = Ready
	target.timeslice = s.timesliceTicks
	s.ready.insert(target)

	s.logf(LevelDebug, "dispatch", target.id, "resumed", nil)
}
