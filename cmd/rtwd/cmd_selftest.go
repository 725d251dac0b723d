package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/steveyegge/rtwatchdog/internal/config"
	"github.com/steveyegge/rtwatchdog/internal/events"
	"github.com/steveyegge/rtwatchdog/internal/fsys"
	"github.com/steveyegge/rtwatchdog/internal/telemetry"
	"github.com/steveyegge/rtwatchdog/watchdog"
)

// stallWait is how many check intervals --stall waits for the watchdog.
const stallWait = 10

// strategyFlag adapts watchdog.Strategy to a pflag.Value. It prints empty
// until set, so help output does not show the zero strategy as a default.
type strategyFlag struct {
	s   *watchdog.Strategy
	set bool
}

var _ pflag.Value = (*strategyFlag)(nil)

func (f *strategyFlag) String() string {
	if f == nil || f.s == nil || !f.set {
		return ""
	}
	return f.s.String()
}

func (f *strategyFlag) Set(v string) error {
	s, err := watchdog.ParseStrategy(v)
	if err != nil {
		return err
	}
	*f.s = s
	f.set = true
	return nil
}

func (f *strategyFlag) Type() string { return "strategy" }

type selftestOptions struct {
	strategy watchdog.Strategy
	interval time.Duration
	beats    int
	stall    bool
	events   string
}

func newSelftestCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts selftestOptions
	cmd := &cobra.Command{
		Use:   "selftest",
		Short: "Start the watchdog in this process and feed it",
		Long: `Start the watchdog in this process and feed it heartbeats.

By default selftest beats the configured number of times, at half the
check interval, then prints "survived N beats" and exits 0.

With --stall the heartbeat stops and selftest waits ten check intervals.
A working watchdog kills the process before that: SIGILL from the
realtime monitor, SIGABRT with goroutine stacks from the fallback
monitor. If the wait completes, selftest prints "watchdog did not fire"
and exits 1.

With --events (or selftest.events_file) each run appends its start and
outcome to a JSONL journal readable with "rtwd events".`,
		Example: `  rtwd selftest
  rtwd selftest --strategy fallback --interval 50ms --beats 4
  rtwd selftest --stall --events rtwd-events.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if doSelftest(opts, flags.Changed("strategy"), flags.Changed("interval"), flags.Changed("beats"), stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().Var(&strategyFlag{s: &opts.strategy}, "strategy",
		"monitor strategy: realtime, fallback, or realtime-or-fallback")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "check interval (default from config)")
	cmd.Flags().IntVar(&opts.beats, "beats", 0, "heartbeats to feed (default from config)")
	cmd.Flags().BoolVar(&opts.stall, "stall", false, "stop feeding and wait for the watchdog to fire")
	cmd.Flags().StringVar(&opts.events, "events", "", "append start and outcome to this JSONL journal")
	return cmd
}

// doSelftest starts the watchdog and feeds or starves it. The *Set
// arguments report which options were given on the command line and so
// override the config file.
func doSelftest(opts selftestOptions, strategySet, intervalSet, beatsSet bool, stdout, stderr io.Writer) int {
	cfg, _, err := loadConfig(fsys.OSFS{})
	if err != nil {
		fmt.Fprintf(stderr, "rtwd selftest: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	if strategySet {
		cfg.Watchdog.Strategy = opts.strategy
	}
	if intervalSet {
		cfg.Watchdog.CheckInterval = config.Duration(opts.interval)
		cfg.Selftest.BeatEvery = 0
	}
	if beatsSet {
		cfg.Selftest.Beats = opts.beats
	}
	if opts.events != "" {
		cfg.Selftest.EventsFile = opts.events
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "rtwd selftest: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	ctx := context.Background()
	prov, err := telemetry.Init(ctx, telemetry.Config{
		MetricsURL:  cfg.Telemetry.MetricsURL,
		LogsURL:     cfg.Telemetry.LogsURL,
		ServiceName: "rtwd",
	})
	if err != nil {
		fmt.Fprintf(stderr, "rtwd selftest: telemetry disabled: %v\n", err) //nolint:errcheck // best-effort stderr
	}
	defer prov.Shutdown(ctx) //nolint:errcheck // best-effort flush

	rec := events.Discard
	if path := cfg.Selftest.EventsFile; path != "" {
		fr, err := events.NewFileRecorder(path, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "rtwd selftest: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		defer fr.Close() //nolint:errcheck // best-effort close
		rec = fr
	}

	strategy := cfg.Watchdog.Strategy
	interval := cfg.Watchdog.CheckInterval.Std()
	wd := watchdog.StartWithOptions(watchdog.Options{
		Strategy:      strategy,
		CheckInterval: interval,
		Stderr:        stderr,
	})
	mode := wd.Mode().String()
	fmt.Fprintf(stdout, "watchdog started (mode: %s, interval: %v)\n", mode, interval) //nolint:errcheck // best-effort stdout
	rec.Record(events.Event{
		Type:    events.WatchdogStarted,
		Mode:    mode,
		Message: fmt.Sprintf("strategy=%s interval=%v", strategy, interval),
	})
	if strategy == watchdog.RealtimeOrFallback && wd.Mode() == watchdog.ModeFallback {
		rec.Record(events.Event{Type: events.WatchdogDegraded, Mode: mode, Message: "realtime monitor unavailable"})
	}

	if opts.stall {
		fmt.Fprintln(stdout, "heartbeat stopped") //nolint:errcheck // best-effort stdout
		rec.Record(events.Event{
			Type:    events.SelftestStalled,
			Mode:    mode,
			Message: fmt.Sprintf("waiting %v", stallWait*interval),
		})
		time.Sleep(stallWait * interval)
		rec.Record(events.Event{Type: events.SelftestFailed, Mode: mode, Message: "watchdog did not fire"})
		fmt.Fprintln(stderr, "rtwd selftest: watchdog did not fire") //nolint:errcheck // best-effort stderr
		return 1
	}

	cadence := cfg.BeatCadence()
	for i := 0; i < cfg.Selftest.Beats; i++ {
		time.Sleep(cadence)
		wd.Beat()
	}
	telemetry.RecordSelftest(ctx, strategy.String(), wd.Mode().String(), cfg.Selftest.Beats)
	rec.Record(events.Event{
		Type:    events.SelftestPassed,
		Mode:    mode,
		Message: fmt.Sprintf("survived %d beats", cfg.Selftest.Beats),
	})
	fmt.Fprintf(stdout, "survived %d beats (mode: %s)\n", cfg.Selftest.Beats, mode) //nolint:errcheck // best-effort stdout
	return 0
}
