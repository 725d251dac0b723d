package watchdog

import (
	"io"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Private futex operations; the monitor thread shares our address space.
const (
	futexWaitPrivate = 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	futexWakePrivate = 129 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)

// futexWait sleeps while *addr == val. Spurious returns are normal; callers
// re-check the value.
func futexWait(addr *atomic.Uint32, val uint32) error {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWaitPrivate, uintptr(val), 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// futexWake wakes up to n waiters on addr.
func futexWake(addr *atomic.Uint32, n int) error {
	_, _, errno := unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWakePrivate, uintptr(n), 0, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// requestStart publishes fenceRequested and wakes the monitor.
func requestStart(c *Context, stderr io.Writer) {
	c.fence.Store(fenceRequested)
	if err := futexWake(&c.fence, 1); err != nil {
		fatalf(stderr, "waking watchdog thread: %v", err)
	}
}

// awaitAck blocks until the monitor has stored fenceAcked. There is no
// timeout: the wait is bounded by the monitor's first activation.
func awaitAck(c *Context, stderr io.Writer) {
	for c.fence.Load() != fenceAcked {
		err := futexWait(&c.fence, fenceRequested)
		switch err {
		case nil, unix.EAGAIN, unix.EINTR:
		default:
			fatalf(stderr, "waiting for watchdog thread: %v", err)
			return
		}
	}
}
