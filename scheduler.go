// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package rrtos

import (
	"context"
	"fmt"

	"github.com/kyutech-rt/rrtos/console"
	"github.com/kyutech-rt/rrtos/hal"
	"github.com/kyutech-rt/rrtos/vmengine"
)

// DefaultPriority is the priority assigned by CreateTask before any
// ChangePriority call; lower numeric values are higher priority.
const DefaultPriority uint8 = 128

// Scheduler owns the four task-state queues, the monotonic tick counter,
// and the dispatcher loop. It is an ordinary Go value rather than
// module-level state (acceptable on bare metal, but it makes testing
// multiple independent monitors in one process possible).
type Scheduler struct {
	hal     hal.HAL
	engine  vmengine.Engine
	logger  Logger
	console console.Console

	metrics        *Metrics
	metricsEnabled bool

	timesliceTicks uint8
	maxTasks       int

	dormant   taskQueue
	ready     taskQueue
	waiting   taskQueue
	suspended taskQueue

	tick    uint32
	nextID  uint64
	liveIDs int

	state *runStateBox
}

// New constructs a Scheduler. WithHAL and WithEngine are required.
func New(opts ...Option) (*Scheduler, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	if cfg.hal == nil {
		return nil, fmt.Errorf("rrtos: New requires WithHAL: %w", ErrInvalidOption)
	}
	if cfg.engine == nil {
		return nil, fmt.Errorf("rrtos: New requires WithEngine: %w", ErrInvalidOption)
	}
	if err := cfg.hal.Init(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = getGlobalLogger()
	}
	con := cfg.console
	if con == nil {
		con = &console.Stderr{}
	}

	s := &Scheduler{
		hal:            cfg.hal,
		engine:         cfg.engine,
		logger:         logger,
		console:        con,
		metrics:        &Metrics{},
		metricsEnabled: cfg.metricsEnabled,
		timesliceTicks: cfg.timesliceTicks,
		maxTasks:       cfg.maxTasks,
		state:          newRunStateBox(),
	}

	if ts, ok := cfg.hal.(hal.TickSource); ok {
		ts.StartTicking(s.Tick)
	}

	return s, nil
}

// Metrics returns the Scheduler's counters, or nil if WithMetrics(true)
// was not passed to New.
func (s *Scheduler) Metrics() *MetricsSnapshot {
	if !s.metricsEnabled {
		return nil
	}
	snap := s.metrics.Snapshot()
	return &snap
}

// CurrentTick returns the current value of the monotonic tick counter.
func (s *Scheduler) CurrentTick() uint32 {
	restore := s.enterCritical()
	defer restore()
	return s.tick
}

func (s *Scheduler) enterCritical() func() {
	return s.hal.DisableIRQ()
}

func (s *Scheduler) logf(level LogLevel, category string, taskID uint64, msg string, err error) {
	if !s.logger.IsEnabled(level) {
		return
	}
	s.logger.Log(LogEntry{Level: level, Category: category, TaskID: taskID, Message: msg, Err: err})
}

// currentTCBLocked resolves h to its owning TCB. It fast-paths on the
// ready queue's head (the running task is always there) and falls back
// to a linear scan.
func (s *Scheduler) currentTCBLocked(h vmengine.Handle) *TCB {
	if head := s.ready.head; head != nil && head.vm == h {
		return head
	}
	for t := s.ready.head; t != nil; t = t.next {
		if t.vm == h {
			return t
		}
	}
	return nil
}

// runningTCBLocked returns the ready queue's head if it is Running, else
// nil. Must be called with the critical section held.
func (s *Scheduler) runningTCBLocked() *TCB {
	if head := s.ready.head; head != nil && head.state == Running {
		return head
	}
	return nil
}

// setPreemptionFlag sets t's VM-visible preemption flag. It is a single
// atomic write and requires no critical section on its own, but callers
// here already hold one incidentally from the surrounding operation.
func (s *Scheduler) setPreemptionFlag(t *TCB) {
	if t == nil {
		return
	}
	s.engine.PreemptionFlag(t.vm).Store(true)
}

func (s *Scheduler) nonDormantEmpty() bool {
	return s.ready.head == nil && s.waiting.head == nil && s.suspended.head == nil
}

func (s *Scheduler) newID() uint64 {
	s.nextID++
	return s.nextID
}

// NewMutex constructs a Mutex bound to this scheduler. Unlike CreateTask,
// allocation failure is not modeled: a *Mutex is a small Go value and the
// scheduler's own dispatcher loop never blocks on the host allocator, so
// there is nowhere an embedder-meaningful OOM signal could originate from
// (see DESIGN.md).
func (s *Scheduler) NewMutex() *Mutex {
	return &Mutex{sched: s}
}

// CreateTask allocates (or reuses) a TCB, opens and loads a VM instance
// for it, and enqueues it on the ready queue. reuse must be nil (allocate
// fresh) or a TCB previously returned by this Scheduler that is currently
// Dormant; passing an enqueued-elsewhere or non-Dormant TCB is a
// precondition violation (asserted, not a recoverable error).
//
// Both the "fresh" and the "reuse" path open a new VM instance and load
// bytecode into it: a reused TCB's "keeps its VM-less state" is read here
// as "reuses the TCB's memory", not as "skips VM allocation", since
// invariant 5 (vm open iff state != Dormant) would otherwise be violated
// the moment the reused TCB re-enters Ready. See DESIGN.md for the full
// reasoning.
func (s *Scheduler) CreateTask(bytecode []byte, reuse *TCB) (*TCB, error) {
	restore := s.enterCritical()
	defer restore()

	if s.state.load() == runTerminated {
		return nil, ErrSchedulerTerminated
	}

	if reuse == nil && s.maxTasks > 0 && s.liveIDs >= s.maxTasks {
		return nil, ErrMaxTasksExceeded
	}

	var tcb *TCB
	if reuse != nil {
		assert(reuse.state == Dormant, "CreateTask: reuse tcb must be Dormant")
		s.dormant.remove(reuse)
		tcb = reuse
	} else {
		tcb = &TCB{id: s.newID()}
		s.liveIDs++
	}

	vm, err := s.engine.Open()
	if err != nil {
		s.metrics.OutOfMemory.Add(1)
		s.console.Errorf("rrtos: task %d: vm open failed: %v", tcb.id, err)
		s.logf(LevelError, "dispatch", tcb.id, "vm open failed", err)
		if reuse == nil {
			s.liveIDs--
		}
		return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}

	if err := s.engine.Load(vm, bytecode); err != nil {
		_ = s.engine.Close(vm)
		s.metrics.LoadFailures.Add(1)
		s.console.Errorf("rrtos: task %d: bytecode load failed: %v", tcb.id, err)
		s.logf(LevelError, "dispatch", tcb.id, "bytecode load failed", err)
		if reuse == nil {
			s.liveIDs--
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	if err := s.engine.Begin(vm); err != nil {
		_ = s.engine.Close(vm)
		s.console.Errorf("rrtos: task %d: vm begin failed: %v", tcb.id, err)
		s.logf(LevelError, "dispatch", tcb.id, "vm begin failed", err)
		if reuse == nil {
			s.liveIDs--
		}
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	tcb.vm = vm
	tcb.priority = DefaultPriority
	tcb.effectivePriority = DefaultPriority
	tcb.timeslice = s.timesliceTicks
	tcb.state = Ready
	tcb.reason = WaitNone
	tcb.mutex = nil
	tcb.next = nil
	tcb.checkInvariants()

	s.ready.insert(tcb)
	s.logf(LevelInfo, "dispatch", tcb.id, "task created", nil)

	return tcb, nil
}

// terminateLocked moves head from Running to Dormant and releases its VM. Must
// be called with the critical section held.
func (s *Scheduler) terminateLocked(head *TCB) {
	s.ready.remove(head)
	head.state = Dormant
	head.timeslice = 0
	head.reason = WaitNone
	vm := head.vm
	head.vm = nil
	s.dormant.insert(head)
	s.logf(LevelInfo, "terminate", head.id, "task terminated", nil)

	_ = s.engine.End(vm)
	_ = s.engine.Close(vm)
}

// Run enters the dispatcher loop. It selects the highest-priority ready
// task, executes it via the VM engine until it yields or terminates, and
// reacts accordingly, returning 0 once every non-dormant queue is empty.
// Run may be called at most once per Scheduler; any later call, whether
// concurrent or after the first has returned, returns ErrSchedulerRunning.
// ctx cancellation is a Go-idiomatic
// extension: it stops the dispatcher gracefully between iterations
// instead of leaving it to run forever in an embedder that has no
// hardware reset vector to fall back on.
func (s *Scheduler) Run(ctx context.Context) (int, error) {
	if !s.state.tryTransition(runAwake, runRunning) {
		return 0, ErrSchedulerRunning
	}

	for {
		select {
		case <-ctx.Done():
			s.state.store(runTerminated)
			return 0, ctx.Err()
		default:
		}

		restore := s.enterCritical()
		head := s.ready.head
		if head == nil {
			restore()
			s.hal.IdleCPU()
			continue
		}
		head.state = Running
		s.engine.PreemptionFlag(head.vm).Store(false)
		restore()

		result, err := s.engine.Run(head.vm)

		restore = s.enterCritical()
		if err != nil || result < 0 {
			s.terminateLocked(head)
			done := s.nonDormantEmpty()
			restore()
			if done {
				s.state.store(runTerminated)
				return 0, nil
			}
			continue
		}

		s.reinsertAfterRunLocked(head)
		restore()
	}
}

// reinsertAfterRunLocked implements the dispatcher's post-run reaction:
// leave a task that moved itself off Running alone, else requeue it
// Ready, rotating it behind its priority peers if its timeslice expired.
// Must be called with the critical section held.
func (s *Scheduler) reinsertAfterRunLocked(head *TCB) {
	if head.state != Running {
		// A guest-facing operation already moved head to another queue
		// (e.g. Waiting via Sleep); leave it alone.
		return
	}
	head.state = Ready
	if head.timeslice == 0 {
		s.ready.remove(head)
		head.timeslice = s.timesliceTicks
		s.ready.insert(head)
		s.metrics.TimesliceExpirations.Add(1)
	}
	s.metrics.ContextSwitches.Add(1)
}

// RunCooperative is the alternate, timer-less dispatcher build: it drives
// the VM one cooperative unit at a time with the preemption flag
// pre-set, then synthesizes a Tick call after each unit, instead of
// relying on a hardware timer interrupt calling Tick concurrently. It
// preserves the same observable task-ordering behavior as Run, for
// platforms without a timer.
func (s *Scheduler) RunCooperative(ctx context.Context) (int, error) {
	if !s.state.tryTransition(runAwake, runRunning) {
		return 0, ErrSchedulerRunning
	}

	for {
		select {
		case <-ctx.Done():
			s.state.store(runTerminated)
			return 0, ctx.Err()
		default:
		}

		restore := s.enterCritical()
		head := s.ready.head
		if head == nil {
			restore()
			s.hal.IdleCPU()
			continue
		}
		head.state = Running
		s.engine.PreemptionFlag(head.vm).Store(true)
		restore()

		result, err := s.engine.Run(head.vm)

		restore = s.enterCritical()
		if err != nil || result < 0 {
			s.terminateLocked(head)
			done := s.nonDormantEmpty()
			restore()
			if done {
				s.state.store(runTerminated)
				return 0, nil
			}
			continue
		}
		restore()

		s.Tick()

		restore = s.enterCritical()
		s.reinsertAfterRunLocked(head)
		restore()
	}
}
