// rtwd starts, probes, and exercises the rtwatchdog process watchdog.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rtwatchdog/internal/config"
	"github.com/steveyegge/rtwatchdog/internal/fsys"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// errExit is a sentinel error returned by cobra RunE functions to signal
// non-zero exit. The command has already written its own error to stderr.
var errExit = errors.New("exit")

// configFlag holds the value of the --config persistent flag.
// Empty means rtwd.toml in the working directory, if it exists.
var configFlag string

// run executes the rtwd CLI with the given args, writing output to stdout
// and errors to stderr. Returns the exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExit) {
			fmt.Fprintf(stderr, "rtwd: %v\n", err) //nolint:errcheck // best-effort stderr
		}
		return 1
	}
	return 0
}

// newRootCmd creates the root cobra command with all subcommands.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "rtwd",
		Short:         "Process liveness watchdog with a SCHED_DEADLINE monitor",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			fmt.Fprintf(stderr, "rtwd: unknown command %q\n", args[0]) //nolint:errcheck // best-effort stderr
			return errExit
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "",
		"path to rtwd.toml or rtwd.yaml (default: ./rtwd.toml if present)")
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(
		newSelftestCmd(stdout, stderr),
		newDoctorCmd(stdout, stderr),
		newConfigCmd(stdout, stderr),
		newEventsCmd(stdout, stderr),
		newVersionCmd(stdout),
	)
	root.AddCommand(newGenDocCmd(stdout, stderr, root))
	return root
}

// loadConfig returns the effective configuration and the file it came from.
// Defaults are overlaid by the config file, then by RTWD_* environment
// variables. The result is not validated; callers apply flag overrides
// first.
func loadConfig(fs fsys.FS) (*config.File, string, error) {
	path := configFlag
	if path == "" {
		if _, err := fs.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}
	cfg := config.Default()
	c := &cfg
	if path != "" {
		var err error
		if c, err = config.Load(fs, path); err != nil {
			return nil, path, err
		}
	}
	if err := c.ApplyEnv(os.Getenv); err != nil {
		return nil, path, err
	}
	return c, path, nil
}
