package transcoder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/osrm-go/errors"
)

func TestNewView(t *testing.T) {
	if _, err := NewView(nil, 8); err == nil {
		t.Error("expected error for nil memory")
	}
	if _, err := NewView(newMockMemory(16), 2); err == nil {
		t.Error("expected error for pointer size 2")
	}
	v, err := NewView(newMockMemory(16), 4)
	if err != nil {
		t.Fatal(err)
	}
	if v.PtrSize() != 4 || v.Schema().PtrSize != 4 {
		t.Errorf("PtrSize = %d", v.PtrSize())
	}
}

func TestViewPointerWidth(t *testing.T) {
	t.Run("64-bit", func(t *testing.T) {
		f := newFixture(t, 8)
		if err := f.view.WritePtr(64, 0x1122334455667788); err != nil {
			t.Fatal(err)
		}
		if got := f.ptr(t, 64); got != 0x1122334455667788 {
			t.Errorf("got %#x", got)
		}
	})

	t.Run("32-bit", func(t *testing.T) {
		f := newFixture(t, 4)
		f.mem.data[68] = 0xff
		if err := f.view.WritePtr(64, 0x11223344); err != nil {
			t.Fatal(err)
		}
		if got := f.ptr(t, 64); got != 0x11223344 {
			t.Errorf("got %#x", got)
		}
		if f.mem.data[68] != 0xff {
			t.Error("32-bit pointer write touched the next word")
		}
		if err := f.view.WritePtr(64, 1<<32); err == nil {
			t.Error("expected overflow for a 33-bit address")
		}
	})
}

func TestReadCString(t *testing.T) {
	f := newFixture(t, 8)

	long := strings.Repeat("abcdefgh", 100)
	p := f.cstr(t, long)
	got, err := f.view.ReadCString(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != long {
		t.Errorf("len %d, want %d", len(got), len(long))
	}

	empty := f.cstr(t, "")
	got, err = f.view.ReadCString(empty)
	if err != nil || len(got) != 0 {
		t.Errorf("empty string: %q %v", got, err)
	}
}

func TestReadCStringNearEndOfMemory(t *testing.T) {
	mem := newMockMemory(100)
	copy(mem.data[90:], "near end\x00")
	v, _ := NewView(mem, 4)

	got, err := v.ReadCString(90)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "near end" {
		t.Errorf("got %q", got)
	}
}

func TestReadCStringUnterminated(t *testing.T) {
	mem := newMockMemory(64)
	for i := range mem.data {
		mem.data[i] = 'x'
	}
	v, _ := NewView(mem, 8)

	_, err := v.ReadCString(10)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
	if !errors.IsDecodeViolation(err) {
		t.Errorf("expected decode violation, got %v", err)
	}
}

func TestReadBlock(t *testing.T) {
	f := newFixture(t, 8)
	copy(f.mem.data[100:], []byte{1, 2, 3, 4})

	b, err := f.view.ReadBlock(100, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	f.mem.data[100] = 9
	if b[0] != 1 {
		t.Error("ReadBlock result aliases memory")
	}

	if _, err := f.view.ReadBlock(100, -1, 8); !errors.IsDecodeViolation(err) {
		t.Errorf("negative count: got %v", err)
	}
	if _, err := f.view.ReadBlock(100, 1<<30, 8); !errors.IsDecodeViolation(err) {
		t.Errorf("huge count: got %v", err)
	}
}

// pagedMemory fails any Read that spans a 4 KiB boundary, the way a read
// running into an unmapped page would fault.
type pagedMemory struct {
	*mockMemory
	reads   int
	crossed int
}

func (m *pagedMemory) Read(addr uint64, length uint32) ([]byte, error) {
	m.reads++
	if length > 0 && addr/4096 != (addr+uint64(length)-1)/4096 {
		m.crossed++
		return nil, fmt.Errorf("read of %d bytes at %#x crosses a page", length, addr)
	}
	return m.mockMemory.Read(addr, length)
}

func TestReadCStringStaysWithinPage(t *testing.T) {
	mem := &pagedMemory{mockMemory: newMockMemory(3 * 4096)}
	v, _ := NewView(mem, 8)

	// Terminator 4 bytes before a page end, with nothing readable assumed
	// past it.
	copy(mem.data[4096-4:], "Ok\x00")
	got, err := v.ReadCString(4096 - 4)
	if err != nil || string(got) != "Ok" {
		t.Fatalf("got %q, %v", got, err)
	}

	long := strings.Repeat("Landsvägen ", 40)
	start := uint64(2*4096 - 100)
	copy(mem.data[start:], long+"\x00")
	reads := mem.reads
	got, err = v.ReadCString(start)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != long {
		t.Errorf("string across a page boundary: got %d bytes, want %d", len(got), len(long))
	}
	if mem.reads-reads < 2 {
		t.Errorf("expected the scan to split at the page boundary, got %d reads", mem.reads-reads)
	}
	if mem.crossed != 0 {
		t.Errorf("%d reads crossed a page boundary", mem.crossed)
	}
}
