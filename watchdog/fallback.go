package watchdog

import "time"

// startFallback starts the polling monitor and returns once its goroutine
// is running. fault is called on a stall and must not return.
func startFallback(c *Context, interval time.Duration, fault func(any)) {
	running := make(chan struct{})
	go func() {
		close(running)
		fallbackLoop(c, interval, fault)
	}()
	<-running
}

// fallbackLoop samples the counter once per interval until it stops
// moving. The first sample is compared against zero, so the application
// must beat within the first interval.
func fallbackLoop(c *Context, interval time.Duration, fault func(any)) {
	var last uint64
	for {
		time.Sleep(interval)
		n := c.counter.Load()
		if n == last {
			fault(&StallError{Interval: interval, Counter: n})
		}
		last = n
	}
}
