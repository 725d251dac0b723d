package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"github.com/steveyegge/rtwatchdog/internal/config"
	"github.com/steveyegge/rtwatchdog/internal/fsys"
	"github.com/steveyegge/rtwatchdog/internal/sched"
	"github.com/steveyegge/rtwatchdog/watchdog"
)

// params returns the deadline parameters for the configured interval.
func (ctx *CheckContext) params() sched.Params {
	if ctx.CheckInterval > 0 {
		return sched.ForInterval(ctx.CheckInterval)
	}
	return sched.ForInterval(config.Default().Watchdog.CheckInterval.Std())
}

// --- Host checks ---

// PlatformCheck reports whether a real-time monitor exists for this
// GOOS/GOARCH.
type PlatformCheck struct {
	// Supported overrides watchdog.PlatformSupported in tests.
	Supported func() bool
}

// Name returns the check identifier.
func (c *PlatformCheck) Name() string { return "platform" }

// Run checks the platform support matrix.
func (c *PlatformCheck) Run(_ *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	supported := watchdog.PlatformSupported
	if c.Supported != nil {
		supported = c.Supported
	}
	platform := runtime.GOOS + "/" + runtime.GOARCH
	if !supported() {
		r.Status = StatusWarning
		r.Message = fmt.Sprintf("%s: fallback monitor only", platform)
		r.FixHint = "the realtime monitor requires linux/amd64"
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf("%s: realtime monitor available", platform)
	return r
}

// CanFix returns false.
func (c *PlatformCheck) CanFix() bool { return false }

// Fix is a no-op.
func (c *PlatformCheck) Fix(_ *CheckContext) error { return nil }

// PageSizeCheck verifies the heartbeat context fits in the single page the
// watchdog maps and locks for it.
type PageSizeCheck struct {
	// PageSize overrides os.Getpagesize in tests.
	PageSize int
}

// Name returns the check identifier.
func (c *PageSizeCheck) Name() string { return "page-size" }

// Run compares the context size with the page size.
func (c *PageSizeCheck) Run(_ *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	ps := c.PageSize
	if ps == 0 {
		ps = os.Getpagesize()
	}
	size := int(unsafe.Sizeof(watchdog.Context{}))
	r.Details = []string{fmt.Sprintf("context %d bytes, page %d bytes", size, ps)}
	if size > ps {
		r.Status = StatusError
		r.Message = fmt.Sprintf("context (%d bytes) does not fit in a %d byte page", size, ps)
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf("%d byte pages", ps)
	return r
}

// CanFix returns false.
func (c *PageSizeCheck) CanFix() bool { return false }

// Fix is a no-op.
func (c *PageSizeCheck) Fix(_ *CheckContext) error { return nil }

// DeadlineParamsCheck verifies the check interval yields an admissible
// SCHED_DEADLINE reservation.
type DeadlineParamsCheck struct{}

// Name returns the check identifier.
func (c *DeadlineParamsCheck) Name() string { return "deadline-params" }

// Run validates runtime and period.
func (c *DeadlineParamsCheck) Run(ctx *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	p := ctx.params()
	r.Details = []string{
		p.String(),
		fmt.Sprintf("cpu utilization %.4f%%", p.Utilization()*100),
	}
	if err := p.Validate(); err != nil {
		r.Status = StatusError
		r.Message = err.Error()
		r.FixHint = fmt.Sprintf("use a check interval of at least %v", sched.DefaultRuntime)
		return r
	}
	r.Status = StatusOK
	r.Message = p.String()
	return r
}

// CanFix returns false.
func (c *DeadlineParamsCheck) CanFix() bool { return false }

// Fix is a no-op.
func (c *DeadlineParamsCheck) Fix(_ *CheckContext) error { return nil }

// ProbeFunc tests whether a SCHED_DEADLINE reservation is admitted.
type ProbeFunc func(sched.Params) error

// DeadlineSchedCheck asks the kernel for a deadline reservation on a
// throwaway thread. Failure is a warning: the watchdog degrades to the
// fallback monitor unless the strategy is realtime-only.
type DeadlineSchedCheck struct {
	probe ProbeFunc
}

// NewDeadlineSchedCheck creates the check. A nil probe uses watchdog.Probe.
func NewDeadlineSchedCheck(probe ProbeFunc) *DeadlineSchedCheck {
	if probe == nil {
		probe = watchdog.Probe
	}
	return &DeadlineSchedCheck{probe: probe}
}

// Name returns the check identifier.
func (c *DeadlineSchedCheck) Name() string { return "sched-deadline" }

// Run probes SCHED_DEADLINE admission.
func (c *DeadlineSchedCheck) Run(ctx *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	p := ctx.params()
	err := c.probe(p)
	if err == nil {
		r.Status = StatusOK
		r.Message = "deadline reservation admitted"
		return r
	}
	r.Status = StatusWarning
	r.Message = err.Error()
	switch {
	case errors.Is(err, watchdog.ErrPlatformUnsupported):
		r.FixHint = "the fallback monitor will be used"
	case errors.Is(err, watchdog.ErrDeadlineRejected):
		r.FixHint = "run as root or grant CAP_SYS_NICE; check /proc/sys/kernel/sched_rt_runtime_us"
	case errors.Is(err, sched.ErrInvalidParams):
		r.Status = StatusError
	}
	return r
}

// CanFix returns false.
func (c *DeadlineSchedCheck) CanFix() bool { return false }

// Fix is a no-op.
func (c *DeadlineSchedCheck) Fix(_ *CheckContext) error { return nil }

// MemlockCheck verifies RLIMIT_MEMLOCK leaves room for the context page and
// the monitor code.
type MemlockCheck struct {
	// Limit overrides the RLIMIT_MEMLOCK lookup in tests.
	Limit func() (cur uint64, unlimited bool, err error)
	// Privileged overrides the CAP_IPC_LOCK heuristic in tests.
	Privileged func() bool
}

// memlockPages is the context page plus a monitor text span that may
// straddle a page boundary.
const memlockPages = 3

// Name returns the check identifier.
func (c *MemlockCheck) Name() string { return "memlock-limit" }

// Run compares the soft limit against what the launcher locks.
func (c *MemlockCheck) Run(_ *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	limit := memlockLimit
	if c.Limit != nil {
		limit = c.Limit
	}
	privileged := func() bool { return os.Geteuid() == 0 }
	if c.Privileged != nil {
		privileged = c.Privileged
	}

	need := uint64(memlockPages * os.Getpagesize())
	cur, unlimited, err := limit()
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		r.Status = StatusOK
		r.Message = "not applicable on " + runtime.GOOS
		return r
	case err != nil:
		r.Status = StatusWarning
		r.Message = fmt.Sprintf("reading RLIMIT_MEMLOCK: %v", err)
		return r
	}
	r.Details = []string{fmt.Sprintf("need %d bytes", need)}
	if unlimited {
		r.Status = StatusOK
		r.Message = "unlimited"
		return r
	}
	if cur >= need {
		r.Status = StatusOK
		r.Message = fmt.Sprintf("%d bytes", cur)
		return r
	}
	if privileged() {
		r.Status = StatusOK
		r.Message = fmt.Sprintf("%d bytes, running as root", cur)
		return r
	}
	r.Status = StatusWarning
	r.Message = fmt.Sprintf("%d bytes is below the %d the realtime monitor locks", cur, need)
	r.FixHint = "raise 'ulimit -l' or grant CAP_IPC_LOCK"
	return r
}

// CanFix returns false.
func (c *MemlockCheck) CanFix() bool { return false }

// Fix is a no-op.
func (c *MemlockCheck) Fix(_ *CheckContext) error { return nil }

// --- Config checks ---

// ConfigFileCheck verifies the config file parses and validates. A missing
// file is a warning that --fix resolves by writing the defaults.
type ConfigFileCheck struct{}

// Name returns the check identifier.
func (c *ConfigFileCheck) Name() string { return "config-file" }

// Run loads and validates ctx.ConfigPath.
func (c *ConfigFileCheck) Run(ctx *CheckContext) *CheckResult {
	r := &CheckResult{Name: c.Name()}
	cfg, err := config.Load(ctx.fs(), ctx.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) {
		r.Status = StatusWarning
		r.Message = fmt.Sprintf("%s not found, using defaults", ctx.ConfigPath)
		r.FixHint = "run 'rtwd doctor --fix' to write the defaults"
		return r
	}
	if err != nil {
		r.Status = StatusError
		r.Message = err.Error()
		return r
	}
	if err := cfg.Validate(); err != nil {
		r.Status = StatusError
		r.Message = fmt.Sprintf("%s: %v", ctx.ConfigPath, err)
		return r
	}
	r.Status = StatusOK
	r.Message = fmt.Sprintf("%s loaded (strategy %s, check interval %v)",
		ctx.ConfigPath, cfg.Watchdog.Strategy, cfg.Watchdog.CheckInterval)
	return r
}

// CanFix returns true: a missing file can be created.
func (c *ConfigFileCheck) CanFix() bool { return true }

// Fix writes the default configuration when the file does not exist. An
// existing file is never overwritten.
func (c *ConfigFileCheck) Fix(ctx *CheckContext) error {
	files := ctx.fs()
	if _, err := files.Stat(ctx.ConfigPath); err == nil {
		return fmt.Errorf("%s exists; refusing to overwrite", ctx.ConfigPath)
	}
	def := config.Default()
	data, err := def.Marshal()
	if err != nil {
		return err
	}
	if dir := filepath.Dir(ctx.ConfigPath); dir != "." {
		if err := files.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return fsys.WriteFileAtomic(files, ctx.ConfigPath, data, 0o644)
}

// DefaultChecks returns the checks rtwd doctor runs, in order.
func DefaultChecks() []Check {
	return []Check{
		&ConfigFileCheck{},
		&PlatformCheck{},
		&PageSizeCheck{},
		&DeadlineParamsCheck{},
		&MemlockCheck{},
		NewDeadlineSchedCheck(nil),
	}
}
