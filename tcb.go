package rrtos

import "github.com/kyutech-rt/rrtos/vmengine"

// TimesliceTick is the default number of ticks in one task's running
// quantum. One hardware tick is 1ms by convention; the scheduler is
// correct under any rate the HAL guarantees monotone.
const TimesliceTick uint8 = 10

// TCB is the Task Control Block: the unit of scheduling. A TCB is always
// linked into exactly one of the scheduler's four queues, as indicated by
// State; see checkInvariants for the invariants that hold across all four.
type TCB struct {
	id uint64

	state TaskState

	// priority is the base priority set by CreateTask or ChangePriority.
	priority uint8
	// effectivePriority is the ordering key used by the queue manager.
	// It equals priority today; priority-inheritance extensions (a
	// Non-goal here) would diverge the two.
	effectivePriority uint8

	timeslice uint8

	reason     WaitReason
	wakeupTick uint32
	mutex      *Mutex

	vm vmengine.Handle

	// next is the intrusive singly-linked queue pointer. It is nil
	// whenever the TCB is not enqueued, and must never point back to the
	// TCB itself.
	next *TCB
}

// ID returns the scheduler-assigned identifier used for logging and
// metrics correlation. It carries no scheduling significance.
func (t *TCB) ID() uint64 { return t.id }

// State returns the task's current lifecycle state.
func (t *TCB) State() TaskState { return t.state }

// Priority returns the task's base priority (lower numeric value is
// higher priority).
func (t *TCB) Priority() uint8 { return t.priority }

// VM returns the handle of the bytecode VM instance this task owns. It is
// the zero Handle (nil) while the task is Dormant.
func (t *TCB) VM() vmengine.Handle { return t.vm }

// Reason returns the wait reason, meaningful only while State is Waiting.
func (t *TCB) Reason() WaitReason { return t.reason }

// checkInvariants asserts the TCB-local invariants that hold regardless of
// which queue the TCB sits on. CreateTask calls it inside its critical
// section once the TCB is set up; it is never on a path reachable from
// bytecode.
func (t *TCB) checkInvariants() {
	assert(t.next != t, "tcb.next must never alias itself")
	assert(t.timeslice == 0 || t.state == Ready || t.state == Running,
		"nonzero timeslice only valid while Ready or Running")
	assert(t.state == Waiting || t.reason == WaitNone,
		"wait reason only valid while Waiting")
	assert((t.vm != nil) == (t.state != Dormant),
		"vm handle open iff state != Dormant")
}
