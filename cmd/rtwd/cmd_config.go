package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rtwatchdog/internal/fsys"
)

func newConfigCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect rtwd configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigShowCmd(stdout, stderr))
	return cmd
}

func newConfigShowCmd(stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration rtwd would use: built-in defaults, overlaid
by the config file, overlaid by RTWD_STRATEGY, RTWD_CHECK_INTERVAL,
RTWD_OTEL_METRICS_URL, and RTWD_OTEL_LOGS_URL.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, path, err := loadConfig(fsys.OSFS{})
			if err != nil {
				fmt.Fprintf(stderr, "rtwd config show: %v\n", err) //nolint:errcheck // best-effort stderr
				return errExit
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintf(stderr, "rtwd config show: %v\n", err) //nolint:errcheck // best-effort stderr
				return errExit
			}
			data, err := cfg.Marshal()
			if err != nil {
				fmt.Fprintf(stderr, "rtwd config show: %v\n", err) //nolint:errcheck // best-effort stderr
				return errExit
			}
			if path != "" {
				fmt.Fprintf(stdout, "# from %s\n", path) //nolint:errcheck // best-effort stdout
			} else {
				fmt.Fprintln(stdout, "# built-in defaults") //nolint:errcheck // best-effort stdout
			}
			stdout.Write(data) //nolint:errcheck // best-effort stdout
			return nil
		},
	}
}
