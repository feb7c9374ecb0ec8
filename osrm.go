package osrm

// Memory is the flat little-endian address space shared with the engine.
// Addresses are 64 bits wide so that the same interface covers native
// process memory and 32-bit WebAssembly linear memory.
//
// Read may return a view that aliases the underlying memory; callers copy
// what they keep.
type Memory interface {
	Read(addr uint64, length uint32) ([]byte, error)
	Write(addr uint64, data []byte) error
	ReadU8(addr uint64) (uint8, error)
	ReadU16(addr uint64) (uint16, error)
	ReadU32(addr uint64) (uint32, error)
	ReadU64(addr uint64) (uint64, error)
	WriteU8(addr uint64, value uint8) error
	WriteU16(addr uint64, value uint16) error
	WriteU32(addr uint64, value uint32) error
	WriteU64(addr uint64, value uint64) error
}

// Allocator allocates memory the engine can read
type Allocator interface {
	Alloc(size, align uint32) (uint64, error)
	Free(ptr uint64, size, align uint32)
}
