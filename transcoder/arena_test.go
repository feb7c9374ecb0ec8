package transcoder

import (
	"testing"

	"github.com/wippyai/osrm-go/errors"
)

func TestArenaAllocZeroed(t *testing.T) {
	f := newFixture(t, 8)
	for i := 1024; i < 2048; i++ {
		f.mem.data[i] = 0xaa
	}
	a := NewArena(f.view, f.alloc)
	defer a.Release()

	p, err := a.Alloc(32, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := p; i < p+32; i++ {
		if f.mem.data[i] != 0 {
			t.Fatalf("byte %d not zeroed", i-p)
		}
	}
	if !a.Contains(p) || !a.Contains(p+31) || a.Contains(p+32) {
		t.Error("Contains does not match the allocation bounds")
	}
}

func TestArenaZeroSize(t *testing.T) {
	f := newFixture(t, 8)
	a := NewArena(f.view, f.alloc)
	defer a.Release()

	p, err := a.Alloc(0, 8)
	if err != nil || p != 0 {
		t.Errorf("got %d, %v; want null", p, err)
	}
	if a.Count() != 0 {
		t.Errorf("Count = %d", a.Count())
	}
}

func TestArenaFreeReleasesEverythingOnce(t *testing.T) {
	f := newFixture(t, 8)
	a := NewArena(f.view, f.alloc)

	for range 5 {
		if _, err := a.Alloc(16, 8); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := a.CString("motorway"); err != nil {
		t.Fatal(err)
	}
	if a.Count() != 6 {
		t.Fatalf("Count = %d, want 6", a.Count())
	}

	a.Free()
	a.Free()
	if len(f.alloc.freed) != 6 {
		t.Errorf("freed %d allocations, want 6", len(f.alloc.freed))
	}
	if len(f.alloc.live) != 0 {
		t.Errorf("%d allocations still live", len(f.alloc.live))
	}

	if _, err := a.Alloc(8, 8); err == nil {
		t.Error("Alloc after Free should fail")
	}
	a.Release()
}

func TestArenaCString(t *testing.T) {
	f := newFixture(t, 8)
	a := NewArena(f.view, f.alloc)
	defer a.Release()

	p, err := a.CString("toll")
	if err != nil {
		t.Fatal(err)
	}
	if got := string(f.mem.data[p : p+5]); got != "toll\x00" {
		t.Errorf("got %q", got)
	}

	_, err = a.CString("to\x00ll")
	if !errors.IsInvalidRequest(err) {
		t.Errorf("embedded NUL: got %v", err)
	}
}

func TestArenaAllocFailure(t *testing.T) {
	f := newFixture(t, 8)
	f.alloc.fail = true
	a := NewArena(f.view, f.alloc)
	defer a.Release()

	_, err := a.Alloc(8, 8)
	if !errors.IsResourceError(err) {
		t.Errorf("expected resource error, got %v", err)
	}
}

func TestArenaPtrArrayWidth(t *testing.T) {
	for _, ps := range []uint32{4, 8} {
		f := newFixture(t, ps)
		a := NewArena(f.view, f.alloc)
		if _, err := a.PtrArray(3); err != nil {
			t.Fatal(err)
		}
		size := f.alloc.live
		for _, n := range size {
			if n != 3*ps {
				t.Errorf("ptrSize %d: array size %d, want %d", ps, n, 3*ps)
			}
		}
		a.Release()
	}
}
