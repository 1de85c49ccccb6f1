// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package rrtos implements the core of a cooperative-preemptive real-time
// task monitor for hosting multiple independent bytecode virtual machines
// on a target with no underlying operating system.
//
// # Architecture
//
// A [Scheduler] owns four task-state queues (dormant, ready, waiting,
// suspended) and a monotonic tick counter. [Scheduler.Tick] is the timer
// ISR entry point: it advances the tick counter, decrements the running
// task's timeslice, and promotes sleepers whose wakeup tick has arrived.
// [Scheduler.Run] is the dispatcher: it repeatedly selects the
// highest-priority ready task, hands control to the external VM engine
// via [vmengine.Engine], and reacts to preemption, termination, and
// guest-facing state changes.
//
// Guest bytecode reaches the scheduler only through the guest-facing
// operations ([Scheduler.Sleep], [Scheduler.SleepMs], [Scheduler.Relinquish],
// [Scheduler.ChangePriority], [Scheduler.SuspendTask], [Scheduler.ResumeTask])
// and the [Mutex] returned by [Scheduler.NewMutex].
//
// # Platform support
//
// The hardware abstraction layer ([hal.HAL]) is supplied by the embedder.
// [simhal] provides a host-runnable implementation backed by a goroutine
// standing in for the timer interrupt, so the scheduler can run under
// `go test` or as an ordinary process, using an eventfd-based idle wait
// on Linux and a channel-based fallback elsewhere.
//
// # Thread safety
//
// [Scheduler.Tick] runs concurrently with [Scheduler.Run] (it models an
// interrupt handler). Every mutation of scheduler state is performed
// inside a critical section acquired from the configured [hal.HAL], which
// on bare metal is an IRQ mask and under [simhal] is a mutex. The per-VM
// preemption flag is the one exception: it is a single atomic write,
// requiring no critical section, sampled by the VM engine between
// instructions.
//
// # Usage
//
//	sched, err := rrtos.New(
//	    rrtos.WithHAL(simhal.New(time.Millisecond)),
//	    rrtos.WithEngine(engine),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := sched.CreateTask(bytecode, nil); err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := sched.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package rrtos
