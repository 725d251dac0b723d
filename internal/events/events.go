// Package events keeps a local journal of watchdog activity.
//
// Events are simple, synchronous, append-only records of what happened.
// The recorder writes JSON lines to a file; the reader scans them back.
// Recording is best-effort: errors are logged to stderr but never
// returned to callers, so a broken journal never blocks a heartbeat.
package events

import (
	"context"
	"time"
)

// Event type constants.
const (
	WatchdogStarted  = "watchdog.started"
	WatchdogDegraded = "watchdog.degraded"
	SelftestPassed   = "selftest.passed"
	SelftestStalled  = "selftest.stalled"
	SelftestFailed   = "selftest.failed"
)

// Event is a single recorded occurrence.
type Event struct {
	Seq     uint64    `json:"seq"`
	Type    string    `json:"type"`
	Ts      time.Time `json:"ts"`
	PID     int       `json:"pid"`
	Mode    string    `json:"mode,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Recorder records events. Safe for concurrent use. Best-effort.
type Recorder interface {
	Record(e Event)
}

// Watcher yields events as they are appended to a journal.
type Watcher interface {
	// Next blocks until an event is available or the context ends.
	Next() (Event, error)
	Close() error
}

// Discard silently drops all events.
var Discard Recorder = discardRecorder{}

type discardRecorder struct{}

func (discardRecorder) Record(Event) {}

// Watch follows the journal at path and yields events with Seq greater
// than afterSeq. The file does not need to exist yet.
func Watch(ctx context.Context, path string, afterSeq uint64) (Watcher, error) {
	return newFileWatcher(ctx, path, afterSeq)
}
