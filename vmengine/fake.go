package vmengine

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNoBytecode is returned by Fake.Load when the supplied bytecode slice
// is empty, standing in for a real bytecode-format validation failure.
var ErrNoBytecode = errors.New("vmengine: fake rejects empty bytecode")

// Step describes one Run outcome a fakeHandle will return: the value Run
// returns once it decides to yield (>= 0) or terminate (< 0). Each Step
// corresponds to one cooperative unit of bytecode execution between
// preemption-flag checks.
type Step struct {
	Result int
}

// Fake is a deterministic, in-memory Engine double for tests. Each opened
// handle plays back a script of Steps attached via Script; once the
// script is exhausted, Run terminates (-1), so tests never hang waiting
// on an engine that ran out of instructions.
type Fake struct {
	mu sync.Mutex
}

// NewFake constructs an empty Fake engine.
func NewFake() *Fake {
	return &Fake{}
}

type fakeHandle struct {
	flag   atomic.Bool
	loaded bool
	idx    int
	script []Step
	begun  bool
	closed bool
}

// Open allocates a fresh fake handle with no script; call Script to attach
// one before Run is invoked, or Run will terminate immediately.
func (f *Fake) Open() (Handle, error) {
	return &fakeHandle{}, nil
}

// Script attaches the sequence of Steps h will play back from Run.
func (f *Fake) Script(h Handle, steps []Step) {
	fh := h.(*fakeHandle)
	f.mu.Lock()
	defer f.mu.Unlock()
	fh.script = steps
	fh.idx = 0
}

func (f *Fake) Load(h Handle, bytecode []byte) error {
	if len(bytecode) == 0 {
		return ErrNoBytecode
	}
	h.(*fakeHandle).loaded = true
	return nil
}

func (f *Fake) Begin(h Handle) error {
	h.(*fakeHandle).begun = true
	return nil
}

// Run plays back the next scripted Step and returns its Result at once,
// clearing the preemption flag if it was set. It does not wait on the
// flag: each Step stands for one unit of work ending at a safe point.
func (f *Fake) Run(h Handle) (int, error) {
	fh := h.(*fakeHandle)
	if fh.idx >= len(fh.script) {
		return -1, nil
	}
	step := fh.script[fh.idx]
	fh.idx++
	if fh.flag.Load() {
		fh.flag.Store(false)
	}
	return step.Result, nil
}

func (f *Fake) End(h Handle) error {
	return nil
}

func (f *Fake) Close(h Handle) error {
	h.(*fakeHandle).closed = true
	return nil
}

func (f *Fake) PreemptionFlag(h Handle) *atomic.Bool {
	return &h.(*fakeHandle).flag
}
