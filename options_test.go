package rrtos

import (
	"errors"
	"testing"

	"github.com/kyutech-rt/rrtos/hal/simhal"
)

func TestNewRequiresHAL(t *testing.T) {
	_, err := New(WithEngine(newTraceEngine()))
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestNewRequiresEngine(t *testing.T) {
	_, err := New(WithHAL(simhal.New(0)))
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestWithTimesliceTicksRejectsZero(t *testing.T) {
	_, err := New(WithHAL(simhal.New(0)), WithEngine(newTraceEngine()), WithTimesliceTicks(0))
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
}

func TestWithTimesliceTicksOverridesDefault(t *testing.T) {
	eng := newTraceEngine()
	sched, err := New(WithHAL(simhal.New(0)), WithEngine(eng), WithTimesliceTicks(3))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tcb, err := sched.CreateTask([]byte{0x01}, nil)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if tcb.timeslice != 3 {
		t.Fatalf("expected overridden timeslice 3, got %d", tcb.timeslice)
	}
}

func TestMetricsDisabledByDefault(t *testing.T) {
	eng := newTraceEngine()
	sched, err := New(WithHAL(simhal.New(0)), WithEngine(eng))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sched.Metrics() != nil {
		t.Fatalf("expected nil Metrics snapshot when WithMetrics was not passed")
	}
}

func TestNilOptionsAreIgnored(t *testing.T) {
	eng := newTraceEngine()
	_, err := New(WithHAL(simhal.New(0)), WithEngine(eng), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
}
