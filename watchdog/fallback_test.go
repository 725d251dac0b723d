package watchdog

import (
	"runtime"
	"testing"
	"time"
)

// recordFault returns a fault func that reports the stall on a channel and
// ends the monitor goroutine.
func recordFault() (func(any), <-chan *StallError) {
	ch := make(chan *StallError, 1)
	return func(v any) {
		ch <- v.(*StallError)
		runtime.Goexit()
	}, ch
}

func TestFallbackDetectsStall(t *testing.T) {
	c := new(Context)
	fault, stalls := recordFault()
	startFallback(c, 20*time.Millisecond, fault)

	select {
	case err := <-stalls:
		if err.Interval != 20*time.Millisecond || err.Counter != 0 {
			t.Errorf("stall = %+v, want interval 20ms counter 0", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fallback monitor did not fire")
	}
}

func TestFallbackToleratesHeartbeat(t *testing.T) {
	const interval = 50 * time.Millisecond
	c := new(Context)
	fault, stalls := recordFault()
	startFallback(c, interval, fault)

	deadline := time.Now().Add(6 * interval)
	for time.Now().Before(deadline) {
		c.Beat()
		select {
		case err := <-stalls:
			t.Fatalf("spurious stall while beating: %v", err)
		case <-time.After(interval / 5):
		}
	}

	// Stop beating: the monitor must fire within two intervals plus slack.
	stopped := c.Count()
	select {
	case err := <-stalls:
		if err.Counter != stopped {
			t.Errorf("stall counter = %d, want %d", err.Counter, stopped)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fallback monitor did not fire after heartbeat stopped")
	}
}

func TestFallbackAddZeroIsNotProgress(t *testing.T) {
	c := new(Context)
	fault, stalls := recordFault()
	c.Beat()
	startFallback(c, 20*time.Millisecond, fault)

	stop := time.After(2 * time.Second)
	for {
		c.Add(0)
		select {
		case err := <-stalls:
			if err.Counter != 1 {
				t.Errorf("stall counter = %d, want 1", err.Counter)
			}
			return
		case <-stop:
			t.Fatal("Add(0) kept the watchdog fed")
		case <-time.After(2 * time.Millisecond):
		}
	}
}

func TestStallErrorMessage(t *testing.T) {
	err := &StallError{Interval: time.Second, Counter: 12}
	want := "rtwatchdog: heartbeat did not advance within 1s (counter=12)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
