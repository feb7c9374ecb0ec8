package transcoder

import (
	"strings"
	"sync"

	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
)

type Allocation struct {
	Ptr   uint64
	Size  uint32
	Align uint32
}

// Arena owns every allocation made while assembling one request. All of
// it is returned to the allocator in one step by Free, after the engine
// call has returned. Addresses handed out stay valid until then.
type Arena struct {
	view        *View
	alloc       Allocator
	allocations []Allocation
	freed       bool
}

var arenaPool = sync.Pool{
	New: func() any {
		return &Arena{allocations: make([]Allocation, 0, 16)}
	},
}

const maxPooledAllocationCapacity = 128

// NewArena takes an arena from the pool bound to view and alloc.
func NewArena(view *View, alloc Allocator) *Arena {
	a := arenaPool.Get().(*Arena)
	a.view = view
	a.alloc = alloc
	a.freed = false
	return a
}

func (a *Arena) View() *View { return a.view }

// Alloc returns zeroed memory of size bytes. Zero-sized requests yield a
// null address.
func (a *Arena) Alloc(size, align uint32) (uint64, error) {
	if a.freed {
		return 0, errors.Closed("arena")
	}
	if size == 0 {
		return 0, nil
	}
	if size > abi.MaxAlloc {
		return 0, errors.AllocationFailed(size, align, nil)
	}
	ptr, err := a.alloc.Alloc(size, align)
	if err != nil {
		return 0, errors.AllocationFailed(size, align, err)
	}
	if ptr == 0 {
		return 0, errors.AllocationFailed(size, align, nil)
	}
	a.allocations = append(a.allocations, Allocation{Ptr: ptr, Size: size, Align: align})
	if err := a.view.mem.Write(ptr, make([]byte, size)); err != nil {
		return 0, err
	}
	return ptr, nil
}

// Array allocates count elements of elemSize bytes.
func (a *Arena) Array(count int, elemSize, align uint32) (uint64, error) {
	n, ok := abi.CountToInt32(count)
	if !ok {
		return 0, errors.Overflow(errors.PhaseAssemble, nil, count, "int")
	}
	total, ok := abi.SafeMulU32(uint32(n), elemSize)
	if !ok {
		return 0, errors.Overflow(errors.PhaseAssemble, nil, count, "array byte size")
	}
	return a.Alloc(total, align)
}

// CString copies s with a trailing NUL. s must not contain NUL bytes.
func (a *Arena) CString(s string) (uint64, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return 0, errors.EmbeddedNUL(errors.PhaseAssemble, nil, i)
	}
	if len(s) >= abi.MaxAlloc {
		return 0, errors.Overflow(errors.PhaseAssemble, nil, len(s), "C string")
	}
	ptr, err := a.Alloc(uint32(len(s))+1, 1)
	if err != nil {
		return 0, err
	}
	if len(s) > 0 {
		if err := a.view.mem.Write(ptr, []byte(s)); err != nil {
			return 0, err
		}
	}
	return ptr, nil
}

// PtrArray allocates count null pointers.
func (a *Arena) PtrArray(count int) (uint64, error) {
	ps := a.view.PtrSize()
	return a.Array(count, ps, ps)
}

// Contains reports whether ptr lies inside a live allocation of this arena.
func (a *Arena) Contains(ptr uint64) bool {
	if a.freed {
		return false
	}
	for _, al := range a.allocations {
		if ptr >= al.Ptr && ptr < al.Ptr+uint64(al.Size) {
			return true
		}
	}
	return false
}

func (a *Arena) Count() int {
	return len(a.allocations)
}

// Free returns every allocation to the allocator. Calling it again is a no-op.
func (a *Arena) Free() {
	if a.freed {
		return
	}
	a.freed = true
	if a.alloc == nil {
		return
	}
	for _, al := range a.allocations {
		a.alloc.Free(al.Ptr, al.Size, al.Align)
	}
}

// Release frees the arena and returns it to the pool. The arena must not be
// used afterwards.
func (a *Arena) Release() {
	a.Free()
	if cap(a.allocations) > maxPooledAllocationCapacity {
		return
	}
	a.allocations = a.allocations[:0]
	a.view = nil
	a.alloc = nil
	arenaPool.Put(a)
}
