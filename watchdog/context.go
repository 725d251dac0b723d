package watchdog

import (
	"sync/atomic"
	"unsafe"
)

// Handshake states stored in Context.fence. The launcher writes
// fenceRequested, the monitor writes fenceAcked; nothing else writes it.
const (
	fenceInit      = 0
	fenceRequested = 1
	fenceAcked     = 2
)

// monitorStackSize is the size of the private stack handed to the raw
// monitor thread. The monitor routine itself uses no stack memory.
const monitorStackSize = 256

// schedAttrSize is the size of the kernel's struct sched_attr (version 1,
// with the utilization clamps).
const schedAttrSize = 56

// Context is the state shared between the application, the launcher, and
// the monitor. It sits at the start of a dedicated memory page that is
// never unmapped. The assembly monitor reads counter, fence, and exitAttr
// by offset, so the field order is fixed.
type Context struct {
	counter atomic.Uint64
	fence   atomic.Uint32
	mode    atomic.Uint32
	stack   monitorStack
	// exitAttr holds a SCHED_NORMAL sched_attr. The monitor applies it to
	// itself right before trapping so the process teardown is not held to
	// the deadline budget.
	exitAttr [schedAttrSize]byte
}

// monitorStack must start on a 16-byte boundary; the fields above occupy
// exactly 16 bytes of a page-aligned block.
type monitorStack [monitorStackSize]byte

// Beat records one unit of progress.
func (c *Context) Beat() {
	c.counter.Add(1)
}

// Add records n units of progress. Adding zero does not count as progress.
func (c *Context) Add(n uint64) {
	c.counter.Add(n)
}

// Count returns the current heartbeat value.
func (c *Context) Count() uint64 {
	return c.counter.Load()
}

// Mode reports which monitor guards c.
func (c *Context) Mode() Mode {
	return Mode(c.mode.Load())
}

// stackTop returns the initial stack pointer for the monitor thread. Stacks
// grow down, so this is one past the end of the region.
func (c *Context) stackTop() uintptr {
	return uintptr(unsafe.Pointer(&c.stack)) + unsafe.Sizeof(c.stack)
}
