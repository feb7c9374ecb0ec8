package wasm

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/errors"
)

// memory adapts guest linear memory to osrm.Memory. Addresses above 4 GiB
// cannot exist in wasm32 and fail like any other out of bounds access.
type memory struct {
	mem api.Memory
}

func offset(addr uint64) (uint32, error) {
	if addr > math.MaxUint32 {
		return 0, fmt.Errorf("memory access out of bounds: offset=%d exceeds 32-bit address space", addr)
	}
	return uint32(addr), nil
}

func (m *memory) Read(addr uint64, length uint32) ([]byte, error) {
	off, err := offset(addr)
	if err != nil {
		return nil, err
	}
	data, ok := m.mem.Read(off, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", addr, length)
	}
	return data, nil
}

func (m *memory) Write(addr uint64, data []byte) error {
	off, err := offset(addr)
	if err != nil {
		return err
	}
	if !m.mem.Write(off, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", addr, len(data))
	}
	return nil
}

func (m *memory) ReadU8(addr uint64) (uint8, error) {
	off, err := offset(addr)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadByte(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", addr)
	}
	return v, nil
}

func (m *memory) ReadU16(addr uint64) (uint16, error) {
	off, err := offset(addr)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadUint16Le(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", addr)
	}
	return v, nil
}

func (m *memory) ReadU32(addr uint64) (uint32, error) {
	off, err := offset(addr)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadUint32Le(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", addr)
	}
	return v, nil
}

func (m *memory) ReadU64(addr uint64) (uint64, error) {
	off, err := offset(addr)
	if err != nil {
		return 0, err
	}
	v, ok := m.mem.ReadUint64Le(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", addr)
	}
	return v, nil
}

func (m *memory) WriteU8(addr uint64, value uint8) error {
	off, err := offset(addr)
	if err != nil {
		return err
	}
	if !m.mem.WriteByte(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", addr)
	}
	return nil
}

func (m *memory) WriteU16(addr uint64, value uint16) error {
	off, err := offset(addr)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint16Le(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", addr)
	}
	return nil
}

func (m *memory) WriteU32(addr uint64, value uint32) error {
	off, err := offset(addr)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint32Le(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", addr)
	}
	return nil
}

func (m *memory) WriteU64(addr uint64, value uint64) error {
	off, err := offset(addr)
	if err != nil {
		return err
	}
	if !m.mem.WriteUint64Le(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", addr)
	}
	return nil
}

// guestAlign is the alignment the guest malloc guarantees.
const guestAlign = 16

// allocator calls the guest's malloc and free. It shares the backend lock,
// since the guest is single threaded.
type allocator struct {
	mu       *sync.Mutex
	allocFn  api.Function
	freeFn   api.Function
	stackBuf []uint64
}

func (a *allocator) Alloc(size, align uint32) (uint64, error) {
	if align > guestAlign {
		return 0, errors.Unsupported(errors.PhaseResource, fmt.Sprintf("alignment %d", align))
	}
	if size == 0 {
		size = 1
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = uint64(size)
	if err := a.allocFn.CallWithStack(context.Background(), a.stackBuf[:1]); err != nil {
		return 0, err
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 {
		return 0, fmt.Errorf("guest malloc(%d) returned null", size)
	}
	return uint64(ptr), nil
}

func (a *allocator) Free(ptr uint64, size, align uint32) {
	if ptr == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stackBuf[0] = ptr
	if err := a.freeFn.CallWithStack(context.Background(), a.stackBuf[:1]); err != nil {
		engine.Logger().Warn("guest free failed",
			zap.Uint64("ptr", ptr),
			zap.Uint32("size", size),
			zap.Error(err))
	}
}
