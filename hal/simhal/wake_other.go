//go:build !linux

package simhal

// wakeWaiter on non-Linux platforms falls back to a buffered channel, a
// channel-based fast wakeup path for when no platform-native wake-fd
// mechanism is available.
type wakeWaiter struct {
	ch chan struct{}
}

func newWakeWaiter() wakeWaiter {
	return wakeWaiter{ch: make(chan struct{}, 1)}
}

func (w wakeWaiter) signal() {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}

func (w wakeWaiter) wait() {
	<-w.ch
}
