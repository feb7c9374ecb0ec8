package transcoder

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/internal/wire"
)

type Memory = osrm.Memory
type Allocator = osrm.Allocator

// cstringChunk is how many bytes ReadCString pulls per read while scanning
// for the terminator.
const cstringChunk = 256

// cstringPage bounds each chunk read. Host page sizes are multiples of it, so
// a chunk never extends into a page the string does not reach.
const cstringPage = 4096

// View reads and writes ABI values in a Memory using the struct layouts of
// one pointer width.
type View struct {
	mem    Memory
	schema *wire.Schema
}

// NewView binds mem to the layout for ptrSize (4 or 8).
func NewView(mem Memory, ptrSize uint32) (*View, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseResource, nil, "Memory")
	}
	s, ok := wire.For(ptrSize)
	if !ok {
		return nil, errors.Unsupported(errors.PhaseResource, "pointer size "+strconv.FormatUint(uint64(ptrSize), 10))
	}
	return &View{mem: mem, schema: s}, nil
}

func (v *View) Memory() Memory { return v.mem }

func (v *View) Schema() *wire.Schema { return v.schema }

func (v *View) PtrSize() uint32 { return v.schema.PtrSize }

func (v *View) ReadPtr(addr uint64) (uint64, error) {
	if v.schema.PtrSize == 4 {
		p, err := v.mem.ReadU32(addr)
		return uint64(p), err
	}
	return v.mem.ReadU64(addr)
}

func (v *View) WritePtr(addr, ptr uint64) error {
	if v.schema.PtrSize == 4 {
		if ptr > math.MaxUint32 {
			return errors.Overflow(errors.PhaseAssemble, nil, ptr, "32-bit pointer")
		}
		return v.mem.WriteU32(addr, uint32(ptr))
	}
	return v.mem.WriteU64(addr, ptr)
}

func (v *View) ReadI32(addr uint64) (int32, error) {
	w, err := v.mem.ReadU32(addr)
	return int32(w), err
}

func (v *View) WriteI32(addr uint64, value int32) error {
	return v.mem.WriteU32(addr, uint32(value))
}

func (v *View) ReadI64(addr uint64) (int64, error) {
	w, err := v.mem.ReadU64(addr)
	return int64(w), err
}

func (v *View) ReadF32(addr uint64) (float32, error) {
	w, err := v.mem.ReadU32(addr)
	return abi.DecodeF32(w), err
}

func (v *View) ReadF64(addr uint64) (float64, error) {
	w, err := v.mem.ReadU64(addr)
	return abi.DecodeF64(w), err
}

func (v *View) WriteF64(addr uint64, value float64) error {
	return v.mem.WriteU64(addr, abi.EncodeF64(value))
}

// ReadCString copies the NUL-terminated byte string at addr. The terminator
// is not included. Strings longer than abi.MaxStringSize are rejected.
func (v *View) ReadCString(addr uint64) ([]byte, error) {
	var out []byte
	for {
		n := uint32(cstringChunk)
		if rem := cstringPage - addr%cstringPage; rem < uint64(n) {
			n = uint32(rem)
		}
		chunk, err := v.mem.Read(addr, n)
		if err != nil {
			// The string may end closer to the memory limit than a full chunk.
			return v.readCStringBytewise(addr, out)
		}
		if i := bytes.IndexByte(chunk, 0); i >= 0 {
			return append(out, chunk[:i]...), nil
		}
		out = append(out, chunk...)
		if len(out) > abi.MaxStringSize {
			return nil, errors.Overflow(errors.PhaseDecode, nil, len(out), "C string")
		}
		addr += uint64(n)
	}
}

func (v *View) readCStringBytewise(addr uint64, out []byte) ([]byte, error) {
	for {
		b, err := v.mem.ReadU8(addr)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "unterminated C string")
		}
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
		if len(out) > abi.MaxStringSize {
			return nil, errors.Overflow(errors.PhaseDecode, nil, len(out), "C string")
		}
		addr++
	}
}

// ReadBlock copies count elements of elemSize bytes starting at addr.
func (v *View) ReadBlock(addr uint64, count int32, elemSize uint32) ([]byte, error) {
	if count < 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil, "negative element count")
	}
	total, ok := abi.SafeMulU32(uint32(count), elemSize)
	if !ok || total > abi.MaxAlloc {
		return nil, errors.Overflow(errors.PhaseDecode, nil, count, "array byte size")
	}
	if _, ok := abi.SafeAddr(addr, uint64(total)); !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, nil, int(count), 0)
	}
	data, err := v.mem.Read(addr, total)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(data), nil
}

var le = binary.LittleEndian
