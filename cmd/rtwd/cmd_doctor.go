package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rtwatchdog/internal/config"
	"github.com/steveyegge/rtwatchdog/internal/doctor"
	"github.com/steveyegge/rtwatchdog/internal/fsys"
)

func newDoctorCmd(stdout, stderr io.Writer) *cobra.Command {
	var fix, verbose, asJSON bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check whether this host can run the realtime monitor",
		Long: `Run diagnostic checks for the watchdog on this host.

Checks the config file, the platform support matrix, page size, the
SCHED_DEADLINE parameters for the configured check interval, the
RLIMIT_MEMLOCK soft limit, and whether the kernel admits a deadline
reservation. Warnings mean the watchdog will degrade to the fallback
monitor; errors mean it cannot start as configured. Use --fix to write a
default config file when none exists. --json prints the report as a
single JSON document for scripts.`,
		Example: `  rtwd doctor
  rtwd doctor --fix
  rtwd doctor --verbose
  rtwd doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if doDoctor(fix, verbose, asJSON, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "write a default config file if missing")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show extra diagnostic details")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

// doDoctor runs all host checks and prints results.
func doDoctor(fix, verbose, asJSON bool, stdout, stderr io.Writer) int {
	fs := fsys.OSFS{}
	path := configFlag
	if path == "" {
		path = config.DefaultPath
	}

	ctx := &doctor.CheckContext{ConfigPath: path, FS: fs, Verbose: verbose}
	// A broken config is reported by the config-file check; the other
	// checks then fall back to the default interval.
	if cfg, _, err := loadConfig(fs); err == nil {
		ctx.CheckInterval = cfg.Watchdog.CheckInterval.Std()
	} else if verbose {
		fmt.Fprintf(stderr, "rtwd doctor: using default interval: %v\n", err) //nolint:errcheck // best-effort stderr
	}

	d := &doctor.Doctor{}
	for _, c := range doctor.DefaultChecks() {
		d.Register(c)
	}
	if asJSON {
		report := d.Run(ctx, nil, fix)
		if err := doctor.WriteJSON(stdout, report); err != nil {
			fmt.Fprintf(stderr, "rtwd doctor: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		if !report.Healthy() {
			return 1
		}
		return 0
	}
	report := d.Run(ctx, stdout, fix)
	doctor.PrintSummary(stdout, report)

	if !report.Healthy() {
		return 1
	}
	return 0
}
