//go:build unix

package watchdog

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// allocContext maps a fresh anonymous page and places a Context at its
// start. The mapping is never released: once a raw monitor thread holds the
// address there is no point at which unmapping it is known to be safe.
func allocContext() (*Context, []byte, error) {
	ps := unix.Getpagesize()
	if uintptr(ps) < unsafe.Sizeof(Context{}) {
		return nil, nil, fmt.Errorf("page size %d cannot hold a %d-byte context", ps, unsafe.Sizeof(Context{}))
	}
	page, err := unix.Mmap(-1, 0, ps, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("mapping context page: %w", err)
	}
	return (*Context)(unsafe.Pointer(&page[0])), page, nil
}
