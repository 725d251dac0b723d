package watchdog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/steveyegge/rtwatchdog/internal/sched"
	"github.com/steveyegge/rtwatchdog/internal/telemetry"
)

var (
	// ErrPlatformUnsupported means no real-time monitor exists for this
	// GOOS/GOARCH.
	ErrPlatformUnsupported = errors.New("realtime monitor not supported on this platform")
	// ErrDeadlineRejected means the kernel refused a SCHED_DEADLINE
	// reservation (missing privilege, admission control, or no kernel
	// support).
	ErrDeadlineRejected = errors.New("deadline scheduling rejected")
	// ErrMemoryLock means the context page or the monitor code could not
	// be locked into memory.
	ErrMemoryLock = errors.New("locking watchdog memory")
)

// Detect reports whether a real-time monitor with parameters p can run on
// this host. A negative answer is logged to stderr and is not an error.
func Detect(p sched.Params, stderr io.Writer) bool {
	err := probe(p)
	telemetry.RecordProbe(context.Background(), err)
	if err != nil {
		fmt.Fprintf(stderr, "rtwatchdog: deadline params are not supported: %v\n", err) //nolint:errcheck // best-effort stderr
		return false
	}
	return true
}

// PlatformSupported reports whether a real-time monitor is implemented for
// the running GOOS/GOARCH at all.
func PlatformSupported() bool {
	return platformSupported
}
