package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// Filter selects events for ReadFiltered. Zero fields match everything.
type Filter struct {
	Type     string    // exact event type
	Mode     string    // monitor mode the event was recorded in
	Since    time.Time // at or after this time
	AfterSeq uint64    // Seq strictly greater than this
}

// Match reports whether e satisfies every non-zero field of f.
func (f Filter) Match(e Event) bool {
	switch {
	case f.AfterSeq > 0 && e.Seq <= f.AfterSeq:
		return false
	case f.Type != "" && e.Type != f.Type:
		return false
	case f.Mode != "" && e.Mode != f.Mode:
		return false
	case !f.Since.IsZero() && e.Ts.Before(f.Since):
		return false
	}
	return true
}

// scan calls fn for each well-formed event in the journal at path. A
// missing journal has no events. Malformed lines, such as a write torn
// by a crash, are skipped.
func scan(path string, fn func(Event)) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Event
		if json.Unmarshal(sc.Bytes(), &e) == nil {
			fn(e)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scanning events: %w", err)
	}
	return nil
}

// ReadAll returns every event in the journal at path, or nil if the
// journal is missing or empty.
func ReadAll(path string) ([]Event, error) {
	return ReadFiltered(path, Filter{})
}

// ReadFiltered returns the events in the journal at path that match filter.
func ReadFiltered(path string, filter Filter) ([]Event, error) {
	var out []Event
	err := scan(path, func(e Event) {
		if filter.Match(e) {
			out = append(out, e)
		}
	})
	return out, err
}

// ReadLatestSeq returns the highest Seq in the journal, or 0 if it is
// missing or empty.
func ReadLatestSeq(path string) (uint64, error) {
	var latest uint64
	err := scan(path, func(e Event) { latest = max(latest, e.Seq) })
	return latest, err
}

// ReadFrom reads events starting at the given byte offset in the file.
// Returns the events read and the byte offset after the last complete
// line. A trailing line without a newline is left for the next call.
// Returns (nil, offset, nil) if no new data is available or the file
// doesn't exist yet. Malformed complete lines are skipped.
func ReadFrom(path string, offset int64) ([]Event, int64, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, offset, nil
	}
	if err != nil {
		return nil, offset, fmt.Errorf("reading events: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seeking events: %w", err)
	}

	var result []Event
	r := bufio.NewReader(f)
	for {
		line, err := r.ReadBytes('\n')
		if err == io.EOF {
			return result, offset, nil
		}
		if err != nil {
			return result, offset, fmt.Errorf("scanning events: %w", err)
		}
		offset += int64(len(line))
		var e Event
		if json.Unmarshal(line, &e) != nil {
			continue
		}
		result = append(result, e)
	}
}
