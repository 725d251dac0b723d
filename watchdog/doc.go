// Package watchdog terminates the process when the application stops
// making progress.
//
// The application obtains a [Context] from [Start] and calls [Context.Beat]
// more often than the check interval. A monitor samples the heartbeat
// counter once per interval and kills the process when it has not moved:
//
//	hb := watchdog.Start(watchdog.RealtimeOrFallback, 100*time.Millisecond)
//	for {
//		doWork()
//		hb.Beat()
//	}
//
// # Monitors
//
// On linux/amd64 and linux/arm64 hosts that admit SCHED_DEADLINE tasks the
// monitor is a raw OS thread created with clone(2) outside the Go runtime.
// It runs a small assembly routine on a stack embedded in the Context page
// and is scheduled with a deadline reservation of 50µs per interval. It
// keeps running while the Go scheduler or the garbage collector is stuck.
// On a stall it drops back to SCHED_NORMAL and executes an undefined
// instruction, so the process dies with SIGILL.
//
// Everywhere else (or with [FallbackOnly]) the monitor is an ordinary
// goroutine that sleeps for the interval between samples. A stall panics
// with traceback level "crash": every goroutine stack is printed and the
// process dies with SIGABRT.
//
// Both monitors compare the counter once per interval, so a stall is
// detected between one and two intervals after the last beat, plus the
// time the kernel needs to tear the process down.
//
// # Lifetime
//
// A Context lives in its own anonymous memory mapping and is never freed.
// There is no way to stop, pause, or reconfigure a running watchdog, and
// only one watchdog may be started per process.
//
// # Setup failures
//
// Conditions with no safe degraded form (failed thread creation, a deadline
// reservation rejected after the probe accepted it, RealtimeOnly on an
// incapable host) print "rtwatchdog: fatal: ..." and exit with status 2.
//
// Supported matrix: the real-time monitor is implemented for linux/amd64 and
// linux/arm64. Other targets always use the fallback monitor.
package watchdog
