package events

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// FileRecorder appends events to a JSONL file. A mutex serializes writers
// inside the process and an advisory lock on path+".lock" serializes
// writers across processes, so Seq stays unique when several rtwd
// processes share one journal. Recording errors are written to stderr
// and never returned.
type FileRecorder struct {
	mu     sync.Mutex
	path   string
	lock   *flock.Flock
	file   *os.File
	stderr io.Writer
	pid    int
}

// NewFileRecorder opens (or creates) the event log at path. Parent
// directories are created as needed.
func NewFileRecorder(path string, stderr io.Writer) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating event log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &FileRecorder{
		path:   path,
		lock:   flock.New(path + ".lock"),
		file:   file,
		stderr: stderr,
		pid:    os.Getpid(),
	}, nil
}

// Path returns the journal location.
func (r *FileRecorder) Path() string { return r.path }

// Record appends an event to the log. It assigns Seq and fills Ts and
// PID when they are zero. Errors are written to stderr, never returned.
func (r *FileRecorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.lock.Lock(); err != nil {
		fmt.Fprintf(r.stderr, "events: lock: %v\n", err) //nolint:errcheck // best-effort stderr
		return
	}
	defer r.lock.Unlock() //nolint:errcheck // released on close anyway

	last, err := ReadLatestSeq(r.path)
	if err != nil {
		fmt.Fprintf(r.stderr, "events: %v\n", err) //nolint:errcheck // best-effort stderr
		return
	}
	e.Seq = last + 1
	if e.Ts.IsZero() {
		e.Ts = time.Now()
	}
	if e.PID == 0 {
		e.PID = r.pid
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(r.stderr, "events: marshal: %v\n", err) //nolint:errcheck // best-effort stderr
		return
	}
	data = append(data, '\n')
	if _, err := r.file.Write(data); err != nil {
		fmt.Fprintf(r.stderr, "events: write: %v\n", err) //nolint:errcheck // best-effort stderr
	}
}

// Close closes the underlying file.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
