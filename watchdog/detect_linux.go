package watchdog

import (
	"fmt"
	"runtime"

	"github.com/steveyegge/rtwatchdog/internal/sched"
)

// Probe tries p on a throwaway thread and reports why a real-time monitor
// cannot run, or nil if it can.
//
// The probe goroutine locks its OS thread and never unlocks it, so the
// runtime destroys the thread when the goroutine returns instead of reusing
// it. Before returning the thread is put back on SCHED_NORMAL; if that
// fails the process aborts, since a stranded deadline reservation can
// starve the host.
func Probe(p sched.Params) error {
	if !platformSupported {
		return fmt.Errorf("%w: linux/%s", ErrPlatformUnsupported, runtime.GOARCH)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	res := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		if err := sched.SetAttr(0, p.Attr()); err != nil {
			res <- fmt.Errorf("%w: %w", ErrDeadlineRejected, err)
			return
		}
		if err := sched.SetAttr(0, sched.NormalAttr()); err != nil {
			abort(fmt.Sprintf("rtwatchdog: probe thread stuck on SCHED_DEADLINE: %v", err))
		}
		res <- nil
	}()
	return <-res
}
