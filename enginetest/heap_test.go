package enginetest

import (
	"strings"
	"testing"
)

func TestHeapAllocAligned(t *testing.T) {
	h := NewHeap(1 << 12)
	a, err := h.Alloc(3, 1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := h.Alloc(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	if a < heapBase {
		t.Errorf("address %#x below heap base", a)
	}
	if b%8 != 0 {
		t.Errorf("address %#x not 8-aligned", b)
	}
	if h.LiveCount() != 2 {
		t.Errorf("LiveCount = %d", h.LiveCount())
	}
}

func TestHeapUseAfterFree(t *testing.T) {
	h := NewHeap(1 << 12)
	p, _ := h.Alloc(8, 8)
	if err := h.WriteU64(p, 42); err != nil {
		t.Fatal(err)
	}
	h.Free(p, 8, 8)

	if _, err := h.ReadU64(p); err == nil {
		t.Error("read after free succeeded")
	}
	if h.IsLive(p) {
		t.Error("block still live")
	}
}

func TestHeapRejectsWildAccess(t *testing.T) {
	h := NewHeap(1 << 12)
	p, _ := h.Alloc(4, 4)

	tests := []struct {
		name string
		addr uint64
		n    uint32
	}{
		{"null", 0, 4},
		{"past end", p + 2, 4},
		{"unallocated", p + 64, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Read(tt.addr, tt.n); err == nil {
				t.Errorf("Read(%#x, %d) succeeded", tt.addr, tt.n)
			}
		})
	}
}

func TestHeapRecordsBadFrees(t *testing.T) {
	h := NewHeap(1 << 12)
	p, _ := h.Alloc(8, 8)
	h.Free(p, 8, 8)
	h.Free(p, 8, 8)
	h.Free(0x12345, 0, 0)

	v := h.Violations()
	if len(v) != 2 {
		t.Fatalf("violations = %v", v)
	}
	if !strings.Contains(v[0], "double free") {
		t.Errorf("first violation = %q", v[0])
	}
}

func TestHeapExhausted(t *testing.T) {
	h := NewHeap(64)
	if _, err := h.Alloc(65, 1); err == nil {
		t.Error("oversized alloc succeeded")
	}
}
