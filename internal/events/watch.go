package events

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval bounds how long a watcher waits when notifications are
// lost or unavailable.
const pollInterval = 250 * time.Millisecond

// fileWatcher tails a JSONL journal. It watches the parent directory so
// the journal may be created after the watch starts.
type fileWatcher struct {
	ctx      context.Context
	path     string
	afterSeq uint64
	offset   int64
	buf      []Event
	notify   *fsnotify.Watcher // nil when inotify is unavailable
}

func newFileWatcher(ctx context.Context, path string, afterSeq uint64) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving event log: %w", err)
	}
	w := &fileWatcher{ctx: ctx, path: abs, afterSeq: afterSeq}
	if n, err := fsnotify.NewWatcher(); err == nil {
		if err := n.Add(filepath.Dir(abs)); err == nil {
			w.notify = n
		} else {
			n.Close() //nolint:errcheck // falling back to polling
		}
	}
	return w, nil
}

// Next blocks until the next event is available or the context is canceled.
func (w *fileWatcher) Next() (Event, error) {
	for {
		if len(w.buf) > 0 {
			e := w.buf[0]
			w.buf = w.buf[1:]
			return e, nil
		}
		if err := w.ctx.Err(); err != nil {
			return Event{}, err
		}

		evts, offset, err := ReadFrom(w.path, w.offset)
		if err != nil {
			return Event{}, err
		}
		w.offset = offset
		for _, e := range evts {
			if e.Seq > w.afterSeq {
				w.afterSeq = e.Seq
				w.buf = append(w.buf, e)
			}
		}
		if len(w.buf) > 0 {
			continue
		}
		if err := w.wait(); err != nil {
			return Event{}, err
		}
	}
}

// wait returns after the journal may have changed.
func (w *fileWatcher) wait() error {
	timer := time.NewTimer(pollInterval)
	defer timer.Stop()

	var (
		changes <-chan fsnotify.Event
		errs    <-chan error
	)
	if w.notify != nil {
		changes, errs = w.notify.Events, w.notify.Errors
	}
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		case <-timer.C:
			return nil
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			if ev.Name == w.path && ev.Has(fsnotify.Write|fsnotify.Create) {
				return nil
			}
		case _, ok := <-errs:
			if !ok {
				errs = nil
			}
			// Overflow and similar errors are covered by the poll timer.
		}
	}
}

// Close releases the notification handle.
func (w *fileWatcher) Close() error {
	if w.notify == nil {
		return nil
	}
	return w.notify.Close()
}
