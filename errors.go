package rrtos

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrSchedulerRunning is returned when Run or RunCooperative is called
	// on a scheduler that is already dispatching or whose dispatcher has
	// already returned.
	ErrSchedulerRunning = errors.New("rrtos: scheduler is already running")

	// ErrSchedulerTerminated is returned by CreateTask once the scheduler's
	// dispatcher has returned (drained or cancelled).
	ErrSchedulerTerminated = errors.New("rrtos: scheduler has terminated")

	// ErrOutOfMemory is returned by CreateTask when the VM engine fails to
	// open a new VM instance for the task.
	ErrOutOfMemory = errors.New("rrtos: out of memory")

	// ErrMaxTasksExceeded is returned by CreateTask when WithMaxTasks'
	// limit would be exceeded by allocating a new TCB.
	ErrMaxTasksExceeded = errors.New("rrtos: maximum task count exceeded")

	// ErrLoadFailed is returned by CreateTask when the VM engine rejects
	// the supplied bytecode.
	ErrLoadFailed = errors.New("rrtos: bytecode load failed")

	// ErrMutexMisuse is returned by Mutex.Unlock when called by a task
	// that is not the current owner, or on an already-unlocked mutex.
	ErrMutexMisuse = errors.New("rrtos: mutex unlock by non-owner or of unlocked mutex")

	// ErrInvalidOption is returned by New when an Option value carries an
	// invalid configuration (e.g. a zero timeslice).
	ErrInvalidOption = errors.New("rrtos: invalid option")
)

// assert panics with msg if cond is false. It guards internal scheduler
// invariants only; it is never reached on a path fed by bytecode or other
// external input. Call sites document which invariant is being checked.
func assert(cond bool, msg string) {
	if !cond {
		panic("rrtos: invariant violation: " + msg)
	}
}

// wrapf mirrors fmt.Errorf's %w wrapping, kept as a small named helper so
// call sites read as intent ("wrap this scheduler error") rather than a
// bare fmt call.
func wrapf(format string, cause error) error {
	return fmt.Errorf(format, cause)
}
