package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rtwatchdog/watchdog"
)

// Build metadata, injected via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print rtwd version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(stdout, "rtwd %s (commit: %s, built: %s)\n", version, commit, date) //nolint:errcheck // best-effort stdout
			monitor := "fallback only"
			if watchdog.PlatformSupported() {
				monitor = "realtime available"
			}
			fmt.Fprintf(stdout, "platform: %s/%s (%s)\n", runtime.GOOS, runtime.GOARCH, monitor) //nolint:errcheck // best-effort stdout
		},
	}
}
