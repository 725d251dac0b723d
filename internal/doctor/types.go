// Package doctor diagnoses whether a host can run the rtwd watchdog. It
// defines a Check interface and a runner that executes checks with
// streaming output, optional --fix support, and a summary report.
package doctor

import (
	"time"

	"github.com/steveyegge/rtwatchdog/internal/fsys"
)

// CheckStatus represents the outcome of a health check.
type CheckStatus int

const (
	// StatusOK means the check passed.
	StatusOK CheckStatus = iota
	// StatusWarning means the watchdog will work, but degraded.
	StatusWarning
	// StatusError means the watchdog cannot start as configured.
	StatusError
)

// MarshalText encodes the status as its String form.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Check is a single diagnostic check. Implementations are registered with
// a Doctor and executed sequentially during Run.
type Check interface {
	// Name returns a short, unique identifier for this check (e.g. "sched-deadline").
	Name() string
	// Run executes the check and returns a result.
	Run(ctx *CheckContext) *CheckResult
	// CanFix reports whether this check supports automatic remediation.
	CanFix() bool
	// Fix attempts to automatically remediate the issue found by Run.
	// Only called when CanFix returns true and Run returned a non-OK status.
	Fix(ctx *CheckContext) error
}

// CheckContext carries shared state for all checks during a doctor run.
type CheckContext struct {
	// ConfigPath is the rtwd config file the checks inspect.
	ConfigPath string
	// FS is the filesystem used to read and write ConfigPath. Nil means OSFS.
	FS fsys.FS
	// CheckInterval is the watchdog interval the deadline probe is run with.
	// Zero means the config default.
	CheckInterval time.Duration
	// Verbose enables extra diagnostic output in check results.
	Verbose bool
}

func (ctx *CheckContext) fs() fsys.FS {
	if ctx.FS == nil {
		return fsys.OSFS{}
	}
	return ctx.FS
}

// CheckResult holds the outcome of a single check execution.
type CheckResult struct {
	Name    string      `json:"name"`
	Status  CheckStatus `json:"status"`
	Message string      `json:"message"`
	// Details holds extra lines shown only in verbose mode.
	Details []string `json:"details,omitempty"`
	// FixHint is a suggestion shown when the check fails and cannot auto-fix.
	FixHint string `json:"fix_hint,omitempty"`
	// Fixed is true when --fix successfully remediated the issue.
	Fixed bool `json:"fixed,omitempty"`
	// FixError is set when --fix was attempted and failed.
	FixError string `json:"fix_error,omitempty"`
}
