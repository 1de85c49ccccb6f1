package rrtos

// Tick is the timer ISR entry point. It is invoked from the timer
// interrupt once per hardware tick (or, under simhal, once per simulated
// period from the ticking goroutine). Its duties run in order:
//
//  1. Increment the global tick counter.
//  2. Decrement the running task's timeslice, if any, setting its
//     preemption flag once the decrement reaches zero.
//  3. Promote every sleeping task whose wakeup tick has arrived.
//  4. If any wakeup occurred, set the preemption flag on whichever task
//     is currently Running, since it may no longer be the highest
//     priority ready task.
//
// Tick is itself the critical section for the duration of its body —
// exactly as on real hardware, where the handler already runs with
// interrupts masked and is therefore internally consistent. It is robust
// against the waiting queue being mutated by the very wakeup it performs:
// it snapshots a TCB's next pointer before calling the queue manager on
// it.
func (s *Scheduler) Tick() {
	restore := s.enterCritical()
	defer restore()

	if s.state.load() == runTerminated {
		return
	}

	s.tick++

	if head := s.ready.head; head != nil && head.state == Running && head.timeslice > 0 {
		head.timeslice--
		if head.timeslice == 0 {
			s.setPreemptionFlag(head)
			s.metrics.Preemptions.Add(1)
		}
	}

	woke := false
	for t := s.waiting.head; t != nil; {
		next := t.next // snapshot before remove mutates t.next
		if t.reason == WaitSleep && t.wakeupTick == s.tick {
			s.waiting.remove(t)
			t.reason = WaitNone
			t.wakeupTick = 0
			t.timeslice = s.timesliceTicks
			t.state = Ready
			s.ready.insert(t)
			s.metrics.SleepWakeups.Add(1)
			s.logf(LevelDebug, "tick", t.id, "sleep wakeup", nil)
			woke = true
		}
		t = next
	}

	if woke {
		s.setPreemptionFlag(s.runningTCBLocked())
	}
}
