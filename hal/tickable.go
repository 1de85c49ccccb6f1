package hal

// TickSource is an optional capability a HAL implementation may provide:
// a way for the scheduler to hand it the timer-ISR callback at
// construction time, rather than the embedder wiring a real hardware
// timer by hand. simhal.HAL implements this by running tick on a
// goroutine standing in for the interrupt.
type TickSource interface {
	// StartTicking begins invoking tick once per simulated hardware tick.
	// It must be called at most once per HAL instance.
	StartTicking(tick func())
	// StopTicking halts the ticking goroutine, if any, and returns once no
	// further tick invocations will occur.
	StopTicking()
}
