//go:build linux && (amd64 || arm64)

package watchdog

import (
	"fmt"
	"io"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/steveyegge/rtwatchdog/internal/sched"
)

const platformSupported = true

// cloneFlags create a thread of this process: shared memory, filesystem
// state, descriptors, and signal handlers.
const cloneFlags = unix.CLONE_VM | unix.CLONE_FS | unix.CLONE_FILES |
	unix.CLONE_SIGHAND | unix.CLONE_THREAD | unix.CLONE_SYSVSEM

// monitorTextSize bounds the machine code of monitorEntry. Everything from
// its entry point up to this many bytes is locked into memory.
const monitorTextSize = 256

// Implemented in monitor_linux_$GOARCH.s.

// monitorEntry is the first instruction executed by the raw monitor thread.
// It expects the *Context in the first argument register (DI on amd64, R0
// on arm64), never returns, and is never called from Go.
func monitorEntry()

// monitorEntryPC returns the address of monitorEntry.
func monitorEntryPC() uintptr

// rawClone runs clone(2) with the given flags and stack. The child starts
// in monitorEntry with arg as its argument; the parent gets the child's
// thread ID or a negated errno.
//
// This bypasses the Go runtime entirely. The child has no g, no TLS setup,
// no growable stack, and no panic handling; anything beyond the assembly
// monitor loop would crash it.
func rawClone(flags, stack, arg uintptr) int64

// launchRealtime performs the real-time launch protocol. A returned error
// means the attempt was abandoned before any thread was created and the
// caller may fall back. Failures after the thread exists are fatal.
func launchRealtime(c *Context, page []byte, p sched.Params, stderr io.Writer) error {
	if err := lockMonitorMemory(page); err != nil {
		return err
	}
	setExitAttr(c)
	tid := spawnMonitor(c, stderr)
	if err := sched.SetAttr(tid, p.Attr()); err != nil {
		fatalf(stderr, "failed to set rt watchdog priority: %v", err)
		return err
	}
	requestStart(c, stderr)
	awaitAck(c, stderr)
	return nil
}

// setExitAttr stores the SCHED_NORMAL record the monitor applies to itself
// before it traps.
func setExitAttr(c *Context) {
	*(*unix.SchedAttr)(unsafe.Pointer(&c.exitAttr)) = sched.NormalAttr()
}

// lockMonitorMemory pins the context page and the pages holding
// monitorEntry, so the monitor never takes a page fault inside its
// deadline slice. Go cannot page-align a text symbol, so the whole page
// span covering the routine is locked.
func lockMonitorMemory(page []byte) error {
	if err := unix.Mlock(page); err != nil {
		return fmt.Errorf("%w: context page: %w", ErrMemoryLock, err)
	}
	ps := uintptr(len(page))
	pc := monitorEntryPC()
	start := pc &^ (ps - 1)
	end := (pc + monitorTextSize + ps - 1) &^ (ps - 1)
	if _, _, errno := unix.Syscall(unix.SYS_MLOCK, start, end-start, 0); errno != 0 {
		return fmt.Errorf("%w: monitor text at %#x: %w", ErrMemoryLock, pc, errno)
	}
	return nil
}

// spawnMonitor creates the raw monitor thread and returns its thread ID.
//
// All signals are blocked around the clone so the child starts, and stays,
// with every signal masked. The runtime never learns about this thread and
// its signal handlers must not run on it. The trap the monitor executes on
// a stall is a synchronous fault: the kernel resets a blocked SIGILL to its
// default action and the whole process dies with SIGILL.
func spawnMonitor(c *Context, stderr io.Writer) int {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var all, old unix.Sigset_t
	for i := range all.Val {
		all.Val[i] = ^uint64(0)
	}
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &all, &old); err != nil {
		fatalf(stderr, "blocking signals for watchdog thread: %v", err)
		return 0
	}
	tid := rawClone(cloneFlags, c.stackTop(), uintptr(unsafe.Pointer(c)))
	if err := unix.PthreadSigmask(unix.SIG_SETMASK, &old, nil); err != nil {
		fatalf(stderr, "restoring signal mask: %v", err)
		return 0
	}
	if tid < 0 {
		fatalf(stderr, "failed to start watchdog thread: %v", syscall.Errno(-tid))
		return 0
	}
	return int(tid)
}
