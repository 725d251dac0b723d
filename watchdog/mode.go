package watchdog

// Mode identifies the monitor guarding a [Context].
type Mode uint32

const (
	// ModeNone means no monitor has been started yet.
	ModeNone Mode = iota
	// ModeRealtime means the deadline-scheduled raw thread is monitoring.
	ModeRealtime
	// ModeFallback means the polling goroutine is monitoring.
	ModeFallback
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeRealtime:
		return "realtime"
	case ModeFallback:
		return "fallback"
	}
	return "unknown"
}
