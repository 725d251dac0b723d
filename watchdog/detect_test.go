package watchdog

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/steveyegge/rtwatchdog/internal/sched"
)

func TestProbeInvalidParams(t *testing.T) {
	err := Probe(sched.Params{Runtime: 2 * time.Second, Period: time.Second})
	if err == nil {
		t.Fatal("Probe accepted runtime > period")
	}
	want := sched.ErrInvalidParams
	if !PlatformSupported() {
		want = ErrPlatformUnsupported
	}
	if !errors.Is(err, want) {
		t.Errorf("Probe = %v, want %v", err, want)
	}
}

func TestProbeClassifiesFailure(t *testing.T) {
	err := Probe(sched.ForInterval(100 * time.Millisecond))
	if err == nil {
		return
	}
	if !errors.Is(err, ErrPlatformUnsupported) && !errors.Is(err, ErrDeadlineRejected) {
		t.Errorf("Probe = %v, want ErrPlatformUnsupported or ErrDeadlineRejected", err)
	}
	if !PlatformSupported() && !errors.Is(err, ErrPlatformUnsupported) {
		t.Errorf("unsupported platform returned %v", err)
	}
}

func TestDetectLogsRejection(t *testing.T) {
	var stderr bytes.Buffer
	ok := Detect(sched.Params{Runtime: time.Second, Period: time.Millisecond}, &stderr)
	if ok {
		t.Fatal("Detect accepted runtime > period")
	}
	if !strings.Contains(stderr.String(), "rtwatchdog: deadline params are not supported:") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestDetectAgreesWithProbe(t *testing.T) {
	p := sched.ForInterval(100 * time.Millisecond)
	var stderr bytes.Buffer
	got := Detect(p, &stderr)
	if want := Probe(p) == nil; got != want {
		t.Errorf("Detect = %v, Probe success = %v", got, want)
	}
	if got && stderr.Len() != 0 {
		t.Errorf("successful Detect wrote %q", stderr.String())
	}
}
