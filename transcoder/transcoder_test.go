package transcoder

import (
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/wippyai/osrm-go/errors"
)

// mockMemory is a bounds-checked flat memory.
type mockMemory struct {
	data []byte
}

func newMockMemory(size int) *mockMemory {
	return &mockMemory{data: make([]byte, size)}
}

func (m *mockMemory) check(addr uint64, n uint32) error {
	if addr > uint64(len(m.data)) || uint64(n) > uint64(len(m.data))-addr {
		return fmt.Errorf("memory access out of bounds: offset=%d, length=%d", addr, n)
	}
	return nil
}

func (m *mockMemory) Read(addr uint64, length uint32) ([]byte, error) {
	if err := m.check(addr, length); err != nil {
		return nil, err
	}
	return m.data[addr : addr+uint64(length)], nil
}

func (m *mockMemory) Write(addr uint64, data []byte) error {
	if err := m.check(addr, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[addr:], data)
	return nil
}

func (m *mockMemory) ReadU8(addr uint64) (uint8, error) {
	if err := m.check(addr, 1); err != nil {
		return 0, err
	}
	return m.data[addr], nil
}

func (m *mockMemory) ReadU16(addr uint64) (uint16, error) {
	if err := m.check(addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.data[addr:]), nil
}

func (m *mockMemory) ReadU32(addr uint64) (uint32, error) {
	if err := m.check(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.data[addr:]), nil
}

func (m *mockMemory) ReadU64(addr uint64) (uint64, error) {
	if err := m.check(addr, 8); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(m.data[addr:]), nil
}

func (m *mockMemory) WriteU8(addr uint64, value uint8) error {
	if err := m.check(addr, 1); err != nil {
		return err
	}
	m.data[addr] = value
	return nil
}

func (m *mockMemory) WriteU16(addr uint64, value uint16) error {
	if err := m.check(addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.data[addr:], value)
	return nil
}

func (m *mockMemory) WriteU32(addr uint64, value uint32) error {
	if err := m.check(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.data[addr:], value)
	return nil
}

func (m *mockMemory) WriteU64(addr uint64, value uint64) error {
	if err := m.check(addr, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(m.data[addr:], value)
	return nil
}

// mockAllocator is a bump allocator that records frees.
type mockAllocator struct {
	mem    *mockMemory
	live   map[uint64]uint32
	freed  []uint64
	offset uint64
	fail   bool
}

func newMockAllocator(mem *mockMemory) *mockAllocator {
	return &mockAllocator{mem: mem, offset: 1024, live: map[uint64]uint32{}}
}

func (a *mockAllocator) Alloc(size, align uint32) (uint64, error) {
	if a.fail {
		return 0, fmt.Errorf("out of memory")
	}
	if align == 0 {
		align = 1
	}
	ptr := (a.offset + uint64(align) - 1) &^ (uint64(align) - 1)
	if ptr+uint64(size) > uint64(len(a.mem.data)) {
		return 0, fmt.Errorf("out of memory")
	}
	a.offset = ptr + uint64(size)
	a.live[ptr] = size
	return ptr, nil
}

func (a *mockAllocator) Free(ptr uint64, size, align uint32) {
	a.freed = append(a.freed, ptr)
	delete(a.live, ptr)
}

type fixture struct {
	mem   *mockMemory
	alloc *mockAllocator
	view  *View
}

func newFixture(t *testing.T, ptrSize uint32) *fixture {
	t.Helper()
	mem := newMockMemory(1 << 20)
	view, err := NewView(mem, ptrSize)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return &fixture{mem: mem, alloc: newMockAllocator(mem), view: view}
}

// Builders for result trees. They allocate from the same bump allocator
// without registering with an arena.

func (f *fixture) raw(t *testing.T, size, align uint32) uint64 {
	t.Helper()
	p, err := f.alloc.Alloc(size, align)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	return p
}

func (f *fixture) cstr(t *testing.T, s string) uint64 {
	t.Helper()
	p := f.raw(t, uint32(len(s))+1, 1)
	copy(f.mem.data[p:], s)
	return p
}

func (f *fixture) putPtr(t *testing.T, addr, p uint64) {
	t.Helper()
	if err := f.view.WritePtr(addr, p); err != nil {
		t.Fatalf("WritePtr: %v", err)
	}
}

func (f *fixture) putI32(addr uint64, v int32) {
	binary.LittleEndian.PutUint32(f.mem.data[addr:], uint32(v))
}

func (f *fixture) putF64(addr uint64, v float64) {
	binary.LittleEndian.PutUint64(f.mem.data[addr:], math.Float64bits(v))
}

func (f *fixture) i32(t *testing.T, addr uint64) int32 {
	t.Helper()
	v, err := f.view.ReadI32(addr)
	if err != nil {
		t.Fatalf("ReadI32(%d): %v", addr, err)
	}
	return v
}

func (f *fixture) f64(t *testing.T, addr uint64) float64 {
	t.Helper()
	v, err := f.view.ReadF64(addr)
	if err != nil {
		t.Fatalf("ReadF64(%d): %v", addr, err)
	}
	return v
}

func (f *fixture) ptr(t *testing.T, addr uint64) uint64 {
	t.Helper()
	v, err := f.view.ReadPtr(addr)
	if err != nil {
		t.Fatalf("ReadPtr(%d): %v", addr, err)
	}
	return v
}

func (f *fixture) str(t *testing.T, addr uint64) string {
	t.Helper()
	p := f.ptr(t, addr)
	if p == 0 {
		return ""
	}
	b, err := f.view.ReadCString(p)
	if err != nil {
		t.Fatalf("ReadCString: %v", err)
	}
	return string(b)
}

func asError(err error, target **errors.Error) bool {
	return stderrors.As(err, target)
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
