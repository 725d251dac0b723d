package sched

import (
	"errors"
	"testing"
	"time"
)

func TestForInterval(t *testing.T) {
	p := ForInterval(100 * time.Millisecond)
	if p.Runtime != DefaultRuntime {
		t.Errorf("Runtime = %v, want %v", p.Runtime, DefaultRuntime)
	}
	if p.Period != 100*time.Millisecond {
		t.Errorf("Period = %v, want 100ms", p.Period)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		ok   bool
	}{
		{"default", ForInterval(time.Second), true},
		{"runtime equals period", Params{Runtime: time.Millisecond, Period: time.Millisecond}, true},
		{"zero runtime", Params{Period: time.Second}, false},
		{"zero period", Params{Runtime: time.Microsecond}, false},
		{"negative period", Params{Runtime: time.Microsecond, Period: -time.Second}, false},
		{"runtime exceeds period", Params{Runtime: time.Second, Period: time.Millisecond}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidParams) {
				t.Errorf("Validate() = %v, want ErrInvalidParams", err)
			}
		})
	}
}

func TestUtilization(t *testing.T) {
	p := Params{Runtime: 50 * time.Microsecond, Period: 100 * time.Millisecond}
	if got := p.Utilization(); got != 0.0005 {
		t.Errorf("Utilization() = %v, want 0.0005", got)
	}
	if got := (Params{}).Utilization(); got != 0 {
		t.Errorf("zero Params Utilization() = %v, want 0", got)
	}
}

func TestString(t *testing.T) {
	got := ForInterval(time.Second).String()
	if got != "runtime=50µs period=1s" {
		t.Errorf("String() = %q", got)
	}
}
