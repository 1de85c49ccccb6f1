package rrtos

import "sync/atomic"

// TaskState is one of the five lifecycle states a TCB may occupy. At most
// one task has state Running at any instant.
type TaskState uint8

const (
	// Dormant tasks hold no VM and sit on the dormant queue, available for
	// reuse by CreateTask.
	Dormant TaskState = iota
	// Ready tasks are on the ready queue, eligible for dispatch.
	Ready
	// Running is the single task currently executing on the ready queue's
	// head; Running tasks remain linked on the ready queue.
	Running
	// Waiting tasks are blocked on a sleep timer or a mutex; see Reason.
	Waiting
	// Suspended tasks were taken off the ready/waiting rotation explicitly
	// by SuspendTask and wait for ResumeTask.
	Suspended
)

// String returns a human-readable state name, used by Logger entries.
func (s TaskState) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Waiting:
		return "waiting"
	case Suspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// WaitReason qualifies a Waiting TCB; it is meaningless in any other state.
type WaitReason uint8

const (
	// WaitNone is the zero value, valid only when state != Waiting.
	WaitNone WaitReason = iota
	// WaitSleep means the task is asleep until WakeupTick.
	WaitSleep
	// WaitMutex means the task is blocked in Mutex.Lock.
	WaitMutex
)

func (r WaitReason) String() string {
	switch r {
	case WaitSleep:
		return "sleep"
	case WaitMutex:
		return "mutex"
	default:
		return "none"
	}
}

// runState is the scheduler's own dispatch-loop state, modeled as a
// lock-free CAS state machine: temporary states transition via CAS,
// terminal states via Store, and there is no validation beyond the CAS
// itself.
type runState uint32

const (
	runAwake runState = iota
	runRunning
	runTerminated
)

// runStateBox is a tiny atomic wrapper; it carries no cache-line padding
// because the scheduler is not contended from more than two actors (the
// dispatcher goroutine and the tick ISR).
type runStateBox struct {
	v atomic.Uint32
}

func newRunStateBox() *runStateBox {
	b := &runStateBox{}
	b.v.Store(uint32(runAwake))
	return b
}

func (b *runStateBox) load() runState { return runState(b.v.Load()) }

func (b *runStateBox) store(s runState) { b.v.Store(uint32(s)) }

func (b *runStateBox) tryTransition(from, to runState) bool {
	return b.v.CompareAndSwap(uint32(from), uint32(to))
}
