//go:build unix

package watchdog

import (
	"os"
	"testing"
	"unsafe"
)

func TestAllocContext(t *testing.T) {
	c, page, err := allocContext()
	if err != nil {
		t.Fatalf("allocContext: %v", err)
	}
	if len(page) != os.Getpagesize() {
		t.Errorf("len(page) = %d, want %d", len(page), os.Getpagesize())
	}
	addr := uintptr(unsafe.Pointer(c))
	if addr != uintptr(unsafe.Pointer(&page[0])) {
		t.Error("context does not start the page")
	}
	if addr%uintptr(len(page)) != 0 {
		t.Errorf("context at %#x is not page aligned", addr)
	}
	if top := c.stackTop(); top%16 != 0 {
		t.Errorf("stackTop() = %#x, want 16-byte aligned", top)
	}
	if c.Count() != 0 || c.Mode() != ModeNone || c.fence.Load() != fenceInit {
		t.Error("fresh context is not zeroed")
	}
}
