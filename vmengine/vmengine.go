// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package vmengine defines the contract the scheduler uses to drive a
// hosted bytecode virtual machine, without depending on any particular
// bytecode format or execution engine.
package vmengine

import "sync/atomic"

// Handle is an opaque reference to one instance of the external VM. A TCB
// exclusively owns a Handle for as long as its task is not Dormant.
type Handle interface{}

// Engine is the external VM execution contract the scheduler drives:
// Open, Load, Begin, Run, End, Close, plus access to a per-handle
// preemption flag the scheduler writes and the engine samples between
// bytecode instructions.
//
// Run must return a negative int when the VM terminates (bytecode
// finished or hit an unrecoverable error) and a non-negative int when it
// yielded voluntarily because the preemption flag was observed set.
// Implementations must not block past the next safe instruction boundary
// once the flag is set.
type Engine interface {
	// Open allocates a new VM instance and returns its handle.
	Open() (Handle, error)
	// Load installs bytecode into a freshly opened VM.
	Load(h Handle, bytecode []byte) error
	// Begin prepares a loaded VM for its first Run.
	Begin(h Handle) error
	// Run executes until the VM yields, terminates, or errors.
	Run(h Handle) (int, error)
	// End releases any per-run resources held by the VM.
	End(h Handle) error
	// Close releases the VM instance itself; h is invalid after this call.
	Close(h Handle) error
	// PreemptionFlag returns the cooperative signal for h. The scheduler
	// writes it directly (no Engine call involved); the engine's Run loop
	// samples it between instructions.
	PreemptionFlag(h Handle) *atomic.Bool
}
