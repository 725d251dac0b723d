package sched

import (
	"testing"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

func TestAttrDeadline(t *testing.T) {
	attr := ForInterval(250 * time.Millisecond).Attr()
	if attr.Policy != unix.SCHED_DEADLINE {
		t.Errorf("Policy = %d, want SCHED_DEADLINE", attr.Policy)
	}
	if attr.Size != unix.SizeofSchedAttr {
		t.Errorf("Size = %d, want %d", attr.Size, unix.SizeofSchedAttr)
	}
	if attr.Runtime != 50_000 {
		t.Errorf("Runtime = %d ns, want 50000", attr.Runtime)
	}
	if attr.Deadline != 250_000_000 || attr.Period != 250_000_000 {
		t.Errorf("Deadline/Period = %d/%d, want 250000000 both", attr.Deadline, attr.Period)
	}
	if attr.Flags != 0 || attr.Nice != 0 || attr.Priority != 0 {
		t.Errorf("unexpected flags/nice/priority: %+v", attr)
	}
}

func TestNormalAttr(t *testing.T) {
	attr := NormalAttr()
	if attr.Policy != unix.SCHED_NORMAL {
		t.Errorf("Policy = %d, want SCHED_NORMAL", attr.Policy)
	}
	if attr.Runtime != 0 || attr.Deadline != 0 || attr.Period != 0 {
		t.Errorf("durations should be zero: %+v", attr)
	}
}

// The kernel reads sched_attr by byte offset; a mismatch makes
// sched_setattr reject or misread the request.
func TestSchedAttrLayout(t *testing.T) {
	var a unix.SchedAttr
	offsets := []struct {
		field string
		got   uintptr
		want  uintptr
	}{
		{"Size", unsafe.Offsetof(a.Size), 0},
		{"Policy", unsafe.Offsetof(a.Policy), 4},
		{"Flags", unsafe.Offsetof(a.Flags), 8},
		{"Nice", unsafe.Offsetof(a.Nice), 16},
		{"Priority", unsafe.Offsetof(a.Priority), 20},
		{"Runtime", unsafe.Offsetof(a.Runtime), 24},
		{"Deadline", unsafe.Offsetof(a.Deadline), 32},
		{"Period", unsafe.Offsetof(a.Period), 40},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("offset of %s = %d, want %d", o.field, o.got, o.want)
		}
	}
	if unsafe.Sizeof(a) < 48 {
		t.Errorf("sizeof(SchedAttr) = %d, want >= 48", unsafe.Sizeof(a))
	}
}
