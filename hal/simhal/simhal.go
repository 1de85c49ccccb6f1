// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package simhal implements [hal.HAL] on top of an ordinary goroutine and
// a host timer, so the scheduler can run under `go test` or as a plain
// process instead of on bare metal.
//
// Critical sections are modeled as a mutex rather than a real interrupt
// mask, per the scheduler's own design notes: "shared state guarded by an
// interrupt-mask critical section, not a mutex-protected structure" is the
// intent on real hardware, and a pluggable critical-section strategy is
// exactly what allows this host simulation to stand in for it. The timer
// ISR is simulated by a background goroutine that calls the scheduler's
// Tick method once per configured period via [hal.TickSource].
package simhal

import (
	"sync"
	"time"
)

// HAL is a host-runnable [hal.HAL] and [hal.TickSource] implementation.
type HAL struct {
	period time.Duration

	mu sync.Mutex

	tickStop chan struct{}
	tickDone chan struct{}

	wake wakeWaiter
}

// New constructs a HAL whose simulated hardware tick fires every period.
// A period of zero disables automatic ticking; the embedder is then
// expected to call the scheduler's Tick method directly (e.g. driven by a
// test's own clock).
func New(period time.Duration) *HAL {
	h := &HAL{period: period}
	h.wake = newWakeWaiter()
	return h
}

// Init satisfies hal.HAL. There is no real hardware to configure.
func (h *HAL) Init() error {
	return nil
}

// DisableIRQ satisfies hal.HAL by acquiring the HAL's mutex, modeling an
// interrupt mask as a critical section a single goroutine at a time may
// hold. It is safe to use non-nested (the common case in this codebase);
// nested use from the same goroutine would deadlock, exactly as nested
// IRQ-disable without a depth counter would wedge real hardware that
// doesn't support nesting.
func (h *HAL) DisableIRQ() (restore func()) {
	h.mu.Lock()
	var once sync.Once
	return func() {
		once.Do(h.mu.Unlock)
	}
}

// IdleCPU blocks until the next simulated tick or explicit wake, standing
// in for a WFI/sleep instruction that returns on the next interrupt.
func (h *HAL) IdleCPU() {
	h.wake.wait()
}

// StartTicking satisfies hal.TickSource, launching the goroutine that
// stands in for the hardware timer interrupt.
func (h *HAL) StartTicking(tick func()) {
	if h.period <= 0 {
		return
	}
	h.tickStop = make(chan struct{})
	h.tickDone = make(chan struct{})
	go func() {
		defer close(h.tickDone)
		t := time.NewTicker(h.period)
		defer t.Stop()
		for {
			select {
			case <-h.tickStop:
				return
			case <-t.C:
				tick()
				h.wake.signal()
			}
		}
	}()
}

// StopTicking satisfies hal.TickSource.
func (h *HAL) StopTicking() {
	if h.tickStop == nil {
		return
	}
	close(h.tickStop)
	<-h.tickDone
}

// Wake unblocks one pending IdleCPU call immediately, without waiting for
// the next tick. The scheduler does not call this directly (it is not
// part of hal.HAL); it exists so guest-facing operations that make a
// higher-priority task Ready (ResumeTask, Mutex.Unlock hand-off) can be
// exercised under simhal without waiting out a full tick period in tests.
func (h *HAL) Wake() {
	h.wake.signal()
}
