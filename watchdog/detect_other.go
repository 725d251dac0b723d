//go:build !linux

package watchdog

import (
	"fmt"
	"runtime"

	"github.com/steveyegge/rtwatchdog/internal/sched"
)

// Probe always fails: SCHED_DEADLINE is linux-only.
func Probe(_ sched.Params) error {
	return fmt.Errorf("%w: %s/%s", ErrPlatformUnsupported, runtime.GOOS, runtime.GOARCH)
}
