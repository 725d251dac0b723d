//go:build linux && (amd64 || arm64)

package watchdog

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

func TestExitAttrMatchesKernelLayout(t *testing.T) {
	if schedAttrSize != unix.SizeofSchedAttr {
		t.Fatalf("schedAttrSize = %d, unix.SizeofSchedAttr = %d", schedAttrSize, unix.SizeofSchedAttr)
	}
	var c Context
	if off := unsafe.Offsetof(c.exitAttr); off%8 != 0 {
		t.Errorf("exitAttr offset %d is not 8-byte aligned", off)
	}
}

func TestSetExitAttr(t *testing.T) {
	c, _, err := allocContext()
	if err != nil {
		t.Fatalf("allocContext: %v", err)
	}
	setExitAttr(c)
	attr := *(*unix.SchedAttr)(unsafe.Pointer(&c.exitAttr))
	if attr.Size != unix.SizeofSchedAttr {
		t.Errorf("Size = %d, want %d", attr.Size, unix.SizeofSchedAttr)
	}
	if attr.Policy != unix.SCHED_NORMAL {
		t.Errorf("Policy = %d, want SCHED_NORMAL", attr.Policy)
	}
	if attr.Runtime != 0 || attr.Deadline != 0 || attr.Period != 0 {
		t.Errorf("deadline fields set: %+v", attr)
	}
	if c.Count() != 0 || c.fence.Load() != fenceInit {
		t.Error("setExitAttr touched the heartbeat or fence")
	}
}

func TestMonitorEntryPC(t *testing.T) {
	if monitorEntryPC() == 0 {
		t.Fatal("monitorEntryPC() = 0")
	}
}
