//go:build darwin || freebsd || linux

package native

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/wippyai/osrm-go/errors"
)

// processMemory addresses the current process directly. Only the null page
// is rejected; any other invalid address faults like it would in C.
type processMemory struct{}

func bytesAt(addr uint64, n uint32) ([]byte, error) {
	if addr == 0 {
		return nil, fmt.Errorf("memory access out of bounds: null pointer, length=%d", n)
	}
	if n == 0 {
		return []byte{}, nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), n), nil
}

func (processMemory) Read(addr uint64, length uint32) ([]byte, error) {
	return bytesAt(addr, length)
}

func (processMemory) Write(addr uint64, data []byte) error {
	b, err := bytesAt(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (processMemory) ReadU8(addr uint64) (uint8, error) {
	b, err := bytesAt(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (processMemory) ReadU16(addr uint64) (uint16, error) {
	b, err := bytesAt(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (processMemory) ReadU32(addr uint64) (uint32, error) {
	b, err := bytesAt(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (processMemory) ReadU64(addr uint64) (uint64, error) {
	b, err := bytesAt(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (processMemory) WriteU8(addr uint64, value uint8) error {
	b, err := bytesAt(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (processMemory) WriteU16(addr uint64, value uint16) error {
	b, err := bytesAt(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (processMemory) WriteU32(addr uint64, value uint32) error {
	b, err := bytesAt(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (processMemory) WriteU64(addr uint64, value uint64) error {
	b, err := bytesAt(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

// mallocAlign is the alignment malloc guarantees on supported platforms.
const mallocAlign = 16

// allocator hands out libc heap memory.
type allocator struct {
	libc   uintptr
	malloc uintptr
	free   uintptr
}

func openAllocator(path string) (*allocator, error) {
	libc, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, errors.Load("open "+path, err)
	}
	a := &allocator{libc: libc}
	if a.malloc, err = purego.Dlsym(libc, "malloc"); err != nil {
		_ = purego.Dlclose(libc)
		return nil, errors.Load("resolve malloc", err)
	}
	if a.free, err = purego.Dlsym(libc, "free"); err != nil {
		_ = purego.Dlclose(libc)
		return nil, errors.Load("resolve free", err)
	}
	return a, nil
}

func (a *allocator) Alloc(size, align uint32) (uint64, error) {
	if align > mallocAlign {
		return 0, errors.Unsupported(errors.PhaseResource, fmt.Sprintf("alignment %d", align))
	}
	if size == 0 {
		size = 1
	}
	p, _, _ := purego.SyscallN(a.malloc, uintptr(size))
	if p == 0 {
		return 0, fmt.Errorf("malloc(%d) returned null", size)
	}
	return uint64(p), nil
}

func (a *allocator) Free(ptr uint64, _, _ uint32) {
	if ptr != 0 {
		purego.SyscallN(a.free, uintptr(ptr))
	}
}

func (a *allocator) close() {
	_ = purego.Dlclose(a.libc)
}
