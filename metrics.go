package rrtos

import "sync/atomic"

// Metrics tracks low-overhead runtime counters for a Scheduler. All
// fields are safe for concurrent use from both the dispatcher and the
// tick ISR. No latency percentile estimator is carried here: the
// monitor's per-task quantum is a fixed tick count, not a variable-latency
// I/O event, so there is no distribution worth streaming percentiles over
// (see DESIGN.md).
type Metrics struct {
	ContextSwitches      atomic.Uint64
	Preemptions          atomic.Uint64
	TimesliceExpirations atomic.Uint64
	SleepWakeups         atomic.Uint64
	MutexContentions     atomic.Uint64
	MutexHandoffs        atomic.Uint64
	OutOfMemory          atomic.Uint64
	LoadFailures         atomic.Uint64
}

// MetricsSnapshot is a point-in-time, non-atomic copy of Metrics, safe to
// pass around or compare in tests.
type MetricsSnapshot struct {
	ContextSwitches      uint64
	Preemptions          uint64
	TimesliceExpirations uint64
	SleepWakeups         uint64
	MutexContentions     uint64
	MutexHandoffs        uint64
	OutOfMemory          uint64
	LoadFailures         uint64
}

// Snapshot returns a consistent-enough point-in-time copy of m. Individual
// fields may be read at slightly different instants; this is acceptable
// for monitoring counters that only ever increase.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		ContextSwitches:      m.ContextSwitches.Load(),
		Preemptions:          m.Preemptions.Load(),
		TimesliceExpirations: m.TimesliceExpirations.Load(),
		SleepWakeups:         m.SleepWakeups.Load(),
		MutexContentions:     m.MutexContentions.Load(),
		MutexHandoffs:        m.MutexHandoffs.Load(),
		OutOfMemory:          m.OutOfMemory.Load(),
		LoadFailures:         m.LoadFailures.Load(),
	}
}
