// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package rrtos

import (
	"github.com/kyutech-rt/rrtos/console"
	"github.com/kyutech-rt/rrtos/hal"
	"github.com/kyutech-rt/rrtos/vmengine"
)

// schedulerOptions holds configuration gathered from Option values.
type schedulerOptions struct {
	hal            hal.HAL
	engine         vmengine.Engine
	logger         Logger
	console        console.Console
	metricsEnabled bool
	timesliceTicks uint8
	maxTasks       int
}

// Option configures a Scheduler created by New.
type Option interface {
	apply(*schedulerOptions) error
}

type optionFunc func(*schedulerOptions) error

func (f optionFunc) apply(o *schedulerOptions) error { return f(o) }

// WithHAL supplies the hardware abstraction layer. It is required; New
// returns an error if none is given.
func WithHAL(h hal.HAL) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.hal = h
		return nil
	})
}

// WithEngine supplies the VM execution engine. It is required; New
// returns an error if none is given.
func WithEngine(e vmengine.Engine) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.engine = e
		return nil
	})
}

// WithLogger overrides the process-wide default logger for one Scheduler.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.logger = l
		return nil
	})
}

// WithConsole overrides the default os.Stderr console.
func WithConsole(c console.Console) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.console = c
		return nil
	})
}

// WithMetrics enables reporting of the Scheduler's Metrics counters.
// Disabled by default, in which case Scheduler.Metrics returns nil; the
// counters themselves are updated either way.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.metricsEnabled = enabled
		return nil
	})
}

// WithTimesliceTicks overrides TimesliceTick (default 10). Must be > 0.
func WithTimesliceTicks(ticks uint8) Option {
	return optionFunc(func(o *schedulerOptions) error {
		if ticks == 0 {
			return wrapf("rrtos: WithTimesliceTicks requires ticks > 0: %w", ErrInvalidOption)
		}
		o.timesliceTicks = ticks
		return nil
	})
}

// WithMaxTasks bounds the number of simultaneously live (non-Dormant, or
// Dormant-and-reusable) TCBs the Scheduler's registry will allocate. Zero
// (the default) means unbounded, limited only by the host allocator.
func WithMaxTasks(n int) Option {
	return optionFunc(func(o *schedulerOptions) error {
		o.maxTasks = n
		return nil
	})
}

func resolveOptions(opts []Option) (*schedulerOptions, error) {
	cfg := &schedulerOptions{
		timesliceTicks: TimesliceTick,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
