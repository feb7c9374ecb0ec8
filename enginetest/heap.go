package enginetest

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"
)

// heapBase is the lowest address handed out, so that small integers never
// look like valid pointers.
const heapBase = 0x10000

type block struct {
	ptr  uint64
	size uint32
	live bool
}

// Heap is a simulated 64-bit native heap. It implements osrm.Memory and
// osrm.Allocator.
//
// Every read and write must fall inside a live allocation, which turns use
// after free and wild pointers into errors. Freeing an address that is not
// live is recorded as a violation instead of panicking, so tests can assert
// on it.
type Heap struct {
	data       []byte
	blocks     []block
	violations []string
	next       uint64
	mu         sync.Mutex
}

// NewHeap returns a heap with size bytes of capacity.
func NewHeap(size int) *Heap {
	return &Heap{data: make([]byte, size), next: heapBase}
}

func (h *Heap) Alloc(size, align uint32) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if align == 0 {
		align = 1
	}
	if size == 0 {
		size = 1
	}
	ptr := (h.next + uint64(align) - 1) &^ (uint64(align) - 1)
	end := ptr + uint64(size)
	if end-heapBase > uint64(len(h.data)) {
		return 0, fmt.Errorf("heap exhausted: need %d bytes", size)
	}
	h.next = end
	h.blocks = append(h.blocks, block{ptr: ptr, size: size, live: true})
	return ptr, nil
}

func (h *Heap) Free(ptr uint64, size, align uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.find(ptr)
	switch {
	case i < 0 || h.blocks[i].ptr != ptr:
		h.violations = append(h.violations, fmt.Sprintf("free of unknown pointer %#x", ptr))
	case !h.blocks[i].live:
		h.violations = append(h.violations, fmt.Sprintf("double free of %#x", ptr))
	default:
		h.blocks[i].live = false
	}
}

// find returns the index of the block containing addr, or -1.
func (h *Heap) find(addr uint64) int {
	i := sort.Search(len(h.blocks), func(i int) bool {
		return h.blocks[i].ptr+uint64(h.blocks[i].size) > addr
	})
	if i < len(h.blocks) && h.blocks[i].ptr <= addr {
		return i
	}
	return -1
}

func (h *Heap) span(addr uint64, n uint32) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.find(addr)
	if i < 0 {
		return nil, fmt.Errorf("access to unallocated address %#x", addr)
	}
	b := h.blocks[i]
	if !b.live {
		return nil, fmt.Errorf("use after free at %#x", addr)
	}
	if addr+uint64(n) > b.ptr+uint64(b.size) {
		return nil, fmt.Errorf("access past end of block: offset=%#x, length=%d", addr, n)
	}
	off := addr - heapBase
	return h.data[off : off+uint64(n)], nil
}

// IsLive reports whether ptr is inside a live allocation.
func (h *Heap) IsLive(ptr uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.find(ptr)
	return i >= 0 && h.blocks[i].live
}

// LiveCount returns the number of allocations not yet freed.
func (h *Heap) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, b := range h.blocks {
		if b.live {
			n++
		}
	}
	return n
}

// Violations returns every invalid free seen so far.
func (h *Heap) Violations() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.violations...)
}

func (h *Heap) Read(addr uint64, length uint32) ([]byte, error) {
	return h.span(addr, length)
}

func (h *Heap) Write(addr uint64, data []byte) error {
	b, err := h.span(addr, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

func (h *Heap) ReadU8(addr uint64) (uint8, error) {
	b, err := h.span(addr, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (h *Heap) ReadU16(addr uint64) (uint16, error) {
	b, err := h.span(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (h *Heap) ReadU32(addr uint64) (uint32, error) {
	b, err := h.span(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (h *Heap) ReadU64(addr uint64) (uint64, error) {
	b, err := h.span(addr, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (h *Heap) WriteU8(addr uint64, value uint8) error {
	b, err := h.span(addr, 1)
	if err != nil {
		return err
	}
	b[0] = value
	return nil
}

func (h *Heap) WriteU16(addr uint64, value uint16) error {
	b, err := h.span(addr, 2)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, value)
	return nil
}

func (h *Heap) WriteU32(addr uint64, value uint32) error {
	b, err := h.span(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

func (h *Heap) WriteU64(addr uint64, value uint64) error {
	b, err := h.span(addr, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}
