package watchdog

import "fmt"

// Strategy selects which monitors Start may use. It is fixed for the
// lifetime of the watchdog.
type Strategy int

const (
	// RealtimeOrFallback tries the real-time monitor and degrades to the
	// fallback monitor with a diagnostic on stderr. It is the zero value.
	RealtimeOrFallback Strategy = iota
	// RealtimeOnly requires the real-time monitor. If it cannot be started
	// the process exits during Start.
	RealtimeOnly
	// FallbackOnly always uses the polling goroutine.
	FallbackOnly
)

var strategyNames = map[Strategy]string{
	RealtimeOrFallback: "realtime-or-fallback",
	RealtimeOnly:       "realtime",
	FallbackOnly:       "fallback",
}

// Strategies returns every valid strategy in display order.
func Strategies() []Strategy {
	return []Strategy{RealtimeOrFallback, RealtimeOnly, FallbackOnly}
}

// ParseStrategy parses the text form of a strategy ("realtime",
// "fallback", or "realtime-or-fallback").
func ParseStrategy(s string) (Strategy, error) {
	for st, name := range strategyNames {
		if name == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (want realtime, fallback, or realtime-or-fallback)", s)
}

// Valid reports whether s is one of the defined strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText implements [encoding.TextMarshaler].
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Strategy) UnmarshalText(text []byte) error {
	st, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = st
	return nil
}
