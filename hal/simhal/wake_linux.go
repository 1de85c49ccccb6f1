//go:build linux

package simhal

import (
	"golang.org/x/sys/unix"
)

// wakeWaiter on Linux is backed by an eventfd, the same wake-pipe idle
// mechanism used elsewhere for event-loop wakeups, so that idling never
// busy-spins a goroutine and a single write wakes exactly one blocked
// IdleCPU call.
type wakeWaiter struct {
	fd int
}

func newWakeWaiter() wakeWaiter {
	fd, err := unix.Eventfd(0, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		// Fall back to a no-op waiter rather than panicking when eventfd
		// is unavailable: signal does nothing and wait returns at once,
		// so IdleCPU does not block in that case.
		return wakeWaiter{fd: -1}
	}
	return wakeWaiter{fd: fd}
}

func (w wakeWaiter) signal() {
	if w.fd < 0 {
		return
	}
	var buf [8]byte
	buf[7] = 1
	_, _ = unix.Write(w.fd, buf[:])
}

func (w wakeWaiter) wait() {
	if w.fd < 0 {
		return
	}
	var buf [8]byte
	fds := []unix.PollFd{{Fd: int32(w.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if n <= 0 || err != nil {
			return
		}
		break
	}
	for {
		_, err := unix.Read(w.fd, buf[:])
		if err == unix.EAGAIN {
			return
		}
		if err != nil {
			return
		}
	}
}
