//go:build !(linux && (amd64 || arm64))

package watchdog

import (
	"io"

	"github.com/steveyegge/rtwatchdog/internal/sched"
)

const platformSupported = false

func launchRealtime(_ *Context, _ []byte, _ sched.Params, _ io.Writer) error {
	return ErrPlatformUnsupported
}
