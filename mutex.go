package rrtos

import "github.com/kyutech-rt/rrtos/vmengine"

// Mutex is the scheduler's blocking synchronization primitive: an
// owner-tracked lock whose unlock wakes exactly one waiter, to which
// ownership is transferred directly rather than re-contended. There is no
// mutex registry (an explicit Non-goal); callers own the *Mutex values
// returned by Scheduler.NewMutex.
type Mutex struct {
	sched  *Scheduler
	locked bool
	owner  *TCB
}

// Locked reports whether the mutex is currently held. It takes the
// scheduler's critical section, so it is safe to call from any goroutine.
func (m *Mutex) Locked() bool {
	restore := m.sched.enterCritical()
	defer restore()
	return m.locked
}

// Lock attempts to acquire m on behalf of the task identified by h. If m
// is free, it is acquired immediately. Otherwise the caller is detached
// from its current queue, marked Waiting with reason WaitMutex, and
// reinserted on the waiting queue; its preemption flag is set so the
// dispatcher regains control at the next safe point. In both cases Lock
// returns immediately — "blocking" is expressed as the caller task
// changing to Waiting, not as this call itself blocking the goroutine.
//
// If h does not identify a task currently on the ready queue, Lock is a
// defensive no-op, matching every other guest-facing operation's handling
// of an unresolvable caller.
func (m *Mutex) Lock(h vmengine.Handle) {
	restore := m.sched.enterCritical()
	defer restore()

	caller := m.sched.currentTCBLocked(h)
	if caller == nil {
		return
	}

	if !m.locked {
		m.locked = true
		m.owner = caller
		return
	}

	m.sched.metrics.MutexContentions.Add(1)

	m.sched.ready.remove(caller)
	caller.timeslice = 0
	caller.state = Waiting
	caller.reason = WaitMutex
	caller.mutex = m
	m.sched.waiting.insert(caller)

	m.sched.setPreemptionFlag(caller)
	m.sched.logf(LevelDebug, "mutex", caller.id, "blocked on contended mutex", nil)
}

// TryLock attempts to acquire m without ever blocking the caller. It
// returns true if the lock was acquired.
func (m *Mutex) TryLock(h vmengine.Handle) bool {
	restore := m.sched.enterCritical()
	defer restore()

	if m.locked {
		return false
	}
	caller := m.sched.currentTCBLocked(h)
	if caller == nil {
		return false
	}
	m.locked = true
	m.owner = caller
	return true
}

// Unlock releases m on behalf of the task identified by h. h must
// currently own m; calling Unlock from a non-owner or on an unlocked
// mutex returns ErrMutexMisuse rather than panicking, since a misbehaving
// guest program can trigger this at runtime and it must not be able to
// crash the host. If a task is waiting on m, ownership transfers directly
// to the highest-priority, longest-waiting such task (the first MUTEX
// waiter found scanning the priority-ordered waiting queue head to tail);
// that task becomes Ready and the currently running task's preemption
// flag is set, since the newly-ready task may outrank it. If no task is
// waiting, m becomes unlocked.
func (m *Mutex) Unlock(h vmengine.Handle) error {
	restore := m.sched.enterCritical()
	defer restore()

	caller := m.sched.currentTCBLocked(h)
	if caller == nil || !m.locked || m.owner != caller {
		return ErrMutexMisuse
	}

	var waiter *TCB
	for t := m.sched.waiting.head; t != nil; t = t.next {
		if t.reason == WaitMutex && t.mutex == m {
			waiter = t
			break
		}
	}

	if waiter == nil {
		m.locked = false
		m.owner = nil
		return nil
	}

	m.owner = waiter
	m.sched.waiting.remove(waiter)
	waiter.reason = WaitNone
	waiter.mutex = nil
	waiter.timeslice = m.sched.timesliceTicks
	waiter.state = Ready
	m.sched.ready.insert(waiter)

	m.sched.metrics.MutexHandoffs.Add(1)
	m.sched.setPreemptionFlag(m.sched.runningTCBLocked())
	m.sched.logf(LevelDebug, "mutex", waiter.id, "ownership handed off", nil)

	return nil
}
