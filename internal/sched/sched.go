// Package sched models the Linux SCHED_DEADLINE parameters used by the
// watchdog monitor and applies them to threads through sched_setattr(2).
//
// A deadline task is granted Runtime of CPU time in every Period. The
// watchdog sets the relative deadline equal to the period, so the monitor is
// guaranteed one activation per check interval while consuming at most
// Runtime/Period of one CPU.
package sched

import (
	"errors"
	"fmt"
	"time"
)

// DefaultRuntime is the execution budget granted to the monitor per period.
// It only has to cover sampling the counter, comparing, and trapping.
const DefaultRuntime = 50 * time.Microsecond

// ErrInvalidParams is returned by [Params.Validate] for values the kernel
// admission test would reject.
var ErrInvalidParams = errors.New("invalid deadline parameters")

// Params is an immutable (runtime, period) pair.
type Params struct {
	Runtime time.Duration
	Period  time.Duration
}

// ForInterval returns the parameters for a monitor that must run at least
// once per checkInterval.
func ForInterval(checkInterval time.Duration) Params {
	return Params{Runtime: DefaultRuntime, Period: checkInterval}
}

// Validate reports whether p can be admitted: both durations positive and
// the runtime no longer than the period.
func (p Params) Validate() error {
	if p.Runtime <= 0 {
		return fmt.Errorf("%w: runtime %v must be positive", ErrInvalidParams, p.Runtime)
	}
	if p.Period <= 0 {
		return fmt.Errorf("%w: period %v must be positive", ErrInvalidParams, p.Period)
	}
	if p.Runtime > p.Period {
		return fmt.Errorf("%w: runtime %v exceeds period %v", ErrInvalidParams, p.Runtime, p.Period)
	}
	return nil
}

// Utilization returns the fraction of one CPU the reservation may consume.
func (p Params) Utilization() float64 {
	if p.Period <= 0 {
		return 0
	}
	return float64(p.Runtime) / float64(p.Period)
}

func (p Params) String() string {
	return fmt.Sprintf("runtime=%v period=%v", p.Runtime, p.Period)
}
