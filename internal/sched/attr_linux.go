package sched

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Attr converts p to the kernel's sched_attr record. Deadline and period are
// both the full period.
func (p Params) Attr() unix.SchedAttr {
	return unix.SchedAttr{
		Size:     unix.SizeofSchedAttr,
		Policy:   unix.SCHED_DEADLINE,
		Runtime:  uint64(p.Runtime.Nanoseconds()),
		Deadline: uint64(p.Period.Nanoseconds()),
		Period:   uint64(p.Period.Nanoseconds()),
	}
}

// NormalAttr returns the record that puts a thread back on SCHED_NORMAL.
func NormalAttr() unix.SchedAttr {
	return unix.SchedAttr{
		Size:   unix.SizeofSchedAttr,
		Policy: unix.SCHED_NORMAL,
	}
}

// SetAttr applies attr to the thread tid. A tid of 0 means the calling
// thread, which the caller must have locked with runtime.LockOSThread.
func SetAttr(tid int, attr unix.SchedAttr) error {
	if err := unix.SchedSetAttr(tid, &attr, 0); err != nil {
		return fmt.Errorf("sched_setattr(tid=%d, policy=%d): %w", tid, attr.Policy, err)
	}
	return nil
}
