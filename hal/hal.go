// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package hal defines the hardware abstraction layer the scheduler depends
// on: one-shot init, a nestable-or-not critical section primitive, and a
// blocking idle hook. Real embedders back this with IRQ mask/unmask and a
// WFI/sleep instruction; see the sibling simhal package for a host-runnable
// stand-in used by tests.
package hal

// HAL is the scheduler's external hardware collaborator: init(),
// disable_irq()/enable_irq(), idle_cpu().
type HAL interface {
	// Init performs one-shot hardware setup. It is called once before the
	// scheduler's dispatcher loop starts.
	Init() error

	// DisableIRQ masks interrupts and returns a closure that restores the
	// prior state. Implementations must support either nested use (each
	// restore only re-enables once its matching disable's nesting level
	// unwinds) or non-nested use consistently; callers always invoke the
	// returned closure exactly once, via defer.
	DisableIRQ() (restore func())

	// IdleCPU blocks the calling goroutine until the next interrupt (real
	// hardware) or simulated tick/wakeup (simhal). It is the dispatcher's
	// sole blocking primitive, invoked only when no task is Ready.
	IdleCPU()
}
