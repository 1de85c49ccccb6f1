// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package console implements the scheduler's one user-visible failure
// surface: a message on bytecode load error. It is deliberately minimal
// and exists only so CreateTask has somewhere to report without importing
// fmt/os directly.
package console

import (
	"fmt"
	"os"
	"sync"
	"time"

	catrate "github.com/joeycumines/go-catrate"
)

// Console is the minimal output seam for user-visible diagnostics.
type Console interface {
	Errorf(format string, args ...any)
}

// Stderr writes directly to os.Stderr, with no rate limiting. It is the
// default Console when none is configured.
type Stderr struct {
	mu sync.Mutex
}

// Errorf implements Console.
func (c *Stderr) Errorf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// RateLimited wraps a Console and suppresses repeats of the identical
// formatted message within a sliding window, so a tight loop of bytecode
// load failures (or repeated assertion trips under a misbehaving guest)
// cannot flood an embedded console. The limiter is built on catrate's
// multi-window sliding rate limiter, keyed by the fully formatted message
// text.
type RateLimited struct {
	next    Console
	limiter *catrate.Limiter
}

// NewRateLimited wraps next, allowing at most maxPerWindow occurrences of
// any single formatted message within window.
func NewRateLimited(next Console, window time.Duration, maxPerWindow int) *RateLimited {
	if next == nil {
		next = &Stderr{}
	}
	return &RateLimited{
		next:    next,
		limiter: catrate.NewLimiter(map[time.Duration]int{window: maxPerWindow}),
	}
}

// Errorf implements Console, suppressing the call if its formatted message
// has already been emitted maxPerWindow times within window.
func (c *RateLimited) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if _, ok := c.limiter.Allow(msg); !ok {
		return
	}
	c.next.Errorf("%s", msg)
}
