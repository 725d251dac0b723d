package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/steveyegge/rtwatchdog/internal/events"
	"github.com/steveyegge/rtwatchdog/internal/fsys"
)

type eventsOptions struct {
	file    string
	typ     string
	mode    string
	since   time.Duration
	watch   bool
	timeout time.Duration
	after   uint64
}

func newEventsCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts eventsOptions
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the selftest event journal",
		Long: `Show the JSONL journal written by "rtwd selftest --events".

The journal is --file, or selftest.events_file from the config. With
--watch, events blocks until a matching event is appended and prints
it as a JSON line. Empty output means the timeout expired.`,
		Example: `  rtwd events --file rtwd-events.jsonl
  rtwd events --type selftest.passed --since 1h
  rtwd events --watch --timeout 1m`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if doEvents(opts, stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "journal path (default from selftest.events_file)")
	cmd.Flags().StringVar(&opts.typ, "type", "", "filter by event type (e.g. selftest.passed)")
	cmd.Flags().StringVar(&opts.mode, "mode", "", "filter by monitor mode (realtime or fallback)")
	cmd.Flags().DurationVar(&opts.since, "since", 0, "show events newer than this (e.g. 1h, 30m)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "block until a matching event arrives")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "max wait for --watch")
	cmd.Flags().Uint64Var(&opts.after, "after", 0, "only events after this sequence number (with --watch, 0 = current head)")
	return cmd
}

func doEvents(opts eventsOptions, stdout, stderr io.Writer) int {
	path := opts.file
	if path == "" {
		cfg, _, err := loadConfig(fsys.OSFS{})
		if err != nil {
			fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		path = cfg.Selftest.EventsFile
	}
	if path == "" {
		fmt.Fprintln(stderr, "rtwd events: no journal configured (use --file or selftest.events_file)") //nolint:errcheck // best-effort stderr
		return 1
	}

	filter := events.Filter{Type: opts.typ, Mode: opts.mode, AfterSeq: opts.after}
	if opts.since > 0 {
		filter.Since = time.Now().Add(-opts.since)
	}
	if opts.watch {
		return watchEvents(path, filter, opts.after, opts.timeout, stdout, stderr)
	}
	return listEvents(path, filter, stdout, stderr)
}

// listEvents prints matching events as a table.
func listEvents(path string, filter events.Filter, stdout, stderr io.Writer) int {
	evts, err := events.ReadFiltered(path, filter)
	if err != nil {
		fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	if len(evts) == 0 {
		fmt.Fprintln(stdout, "No events.") //nolint:errcheck // best-effort stdout
		return 0
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tTYPE\tMODE\tPID\tMESSAGE\tTIME") //nolint:errcheck // best-effort stdout
	for _, e := range evts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n", //nolint:errcheck // best-effort stdout
			e.Seq, e.Type, e.Mode, e.PID, truncate(e.Message, 40),
			e.Ts.Format("2006-01-02 15:04:05"),
		)
	}
	tw.Flush() //nolint:errcheck // best-effort stdout
	return 0
}

// truncate shortens s to at most n runes, marking a cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

// watchEvents blocks until an event matching filter is appended after
// afterSeq, or the timeout expires. The match is printed as a JSON line.
// A timeout is not an error.
func watchEvents(path string, filter events.Filter, afterSeq uint64, timeout time.Duration, stdout, stderr io.Writer) int {
	if afterSeq == 0 {
		seq, err := events.ReadLatestSeq(path)
		if err != nil {
			fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		afterSeq = seq
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	w, err := events.Watch(ctx, path, afterSeq)
	if err != nil {
		fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	defer w.Close() //nolint:errcheck // best-effort cleanup

	for {
		e, err := w.Next()
		if errors.Is(err, context.DeadlineExceeded) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		if !filter.Match(e) {
			continue
		}
		data, err := json.Marshal(e)
		if err != nil {
			fmt.Fprintf(stderr, "rtwd events: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		fmt.Fprintln(stdout, string(data)) //nolint:errcheck // best-effort stdout
		return 0
	}
}
