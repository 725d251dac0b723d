package watchdog

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"
)

// StallError is the panic value raised when the fallback monitor sees the
// heartbeat counter unchanged for a whole interval.
type StallError struct {
	Interval time.Duration
	Counter  uint64
}

func (e *StallError) Error() string {
	return fmt.Sprintf("rtwatchdog: heartbeat did not advance within %v (counter=%d)", e.Interval, e.Counter)
}

// abort kills the process with SIGABRT after the runtime has printed every
// goroutine stack. It never returns. Tests replace it; a replacement must
// not return either (runtime.Goexit is the usual choice).
var abort = func(v any) {
	debug.SetTraceback("crash")
	panic(v)
}

// exit is os.Exit, replaceable in tests.
var exit = os.Exit

// fatalf reports a setup failure that has no safe degraded form and exits
// with status 2.
func fatalf(stderr io.Writer, format string, args ...any) {
	fmt.Fprintf(stderr, "rtwatchdog: fatal: "+format+"\n", args...) //nolint:errcheck // best-effort stderr
	exit(2)
}
