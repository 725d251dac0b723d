package watchdog

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/steveyegge/rtwatchdog/internal/sched"
	"github.com/steveyegge/rtwatchdog/internal/telemetry"
)

// Options configures [StartWithOptions].
type Options struct {
	// Strategy selects the monitors that may be used.
	Strategy Strategy
	// CheckInterval is the longest the heartbeat may stand still. It is also
	// the deadline period of the real-time monitor.
	CheckInterval time.Duration
	// Stderr receives diagnostics. Nil means os.Stderr.
	Stderr io.Writer
}

// started guards against a second watchdog in the same process.
var started atomic.Bool

// probe and launch are Probe and launchRealtime, replaceable in tests.
var (
	probe  = Probe
	launch = launchRealtime
)

// Start launches the process watchdog and returns its heartbeat handle.
// It is StartWithOptions with diagnostics written to os.Stderr.
func Start(strategy Strategy, checkInterval time.Duration) *Context {
	return StartWithOptions(Options{Strategy: strategy, CheckInterval: checkInterval})
}

// StartWithOptions launches the process watchdog and returns its heartbeat
// handle once a monitor is running. The handle stays valid for the rest of
// the process.
//
// Unless the strategy is FallbackOnly, it probes for SCHED_DEADLINE support
// and tries the real-time monitor. If that is unavailable, RealtimeOnly
// exits the process; the other strategies start the fallback monitor and
// print a diagnostic. Calling it twice in one process is a fatal error.
func StartWithOptions(opts Options) *Context {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	if !opts.Strategy.Valid() {
		fatalf(stderr, "invalid strategy %v", opts.Strategy)
		return nil
	}
	if opts.CheckInterval <= 0 {
		fatalf(stderr, "check interval must be positive, got %v", opts.CheckInterval)
		return nil
	}
	if !started.CompareAndSwap(false, true) {
		fatalf(stderr, "watchdog already started in this process")
		return nil
	}

	c, page, err := allocContext()
	if err != nil {
		fatalf(stderr, "%v", err)
		return nil
	}

	ctx := context.Background()
	p := sched.ForInterval(opts.CheckInterval)
	if opts.Strategy != FallbackOnly && Detect(p, stderr) {
		err := launch(c, page, p, stderr)
		if err == nil {
			c.mode.Store(uint32(ModeRealtime))
			telemetry.RecordWatchdogStart(ctx, opts.Strategy.String(), ModeRealtime.String(), opts.CheckInterval, nil)
			return c
		}
		fmt.Fprintf(stderr, "rtwatchdog: realtime launch abandoned: %v\n", err) //nolint:errcheck // best-effort stderr
	}

	if opts.Strategy == RealtimeOnly {
		err := fmt.Errorf("failed to start realtime watchdog on current platform")
		telemetry.RecordWatchdogStart(ctx, opts.Strategy.String(), ModeNone.String(), opts.CheckInterval, err)
		fatalf(stderr, "%v", err)
		return nil
	}

	reason := "realtime monitor unavailable"
	if opts.Strategy == FallbackOnly {
		reason = "fallback requested"
	}
	fmt.Fprintln(stderr, "rtwatchdog: falling back to non-realtime watchdog") //nolint:errcheck // best-effort stderr
	telemetry.RecordDegraded(ctx, opts.Strategy.String(), reason)
	startFallback(c, opts.CheckInterval, abort)
	c.mode.Store(uint32(ModeFallback))
	telemetry.RecordWatchdogStart(ctx, opts.Strategy.String(), ModeFallback.String(), opts.CheckInterval, nil)
	return c
}
