package engine

import (
	"context"

	osrm "github.com/wippyai/osrm-go"
)

// Backend is a loaded OSRM C library: the memory its pointers refer to, an
// allocator for request data, and a way to call its exported functions.
//
// Call invokes the named function with integer and pointer arguments and
// returns its integer result. For functions returning void the result is
// meaningless. Implementations must accept every name in Symbols.
//
// Backends must be safe for concurrent use.
type Backend interface {
	Memory() osrm.Memory
	Allocator() osrm.Allocator
	PointerSize() uint32
	Call(ctx context.Context, fn string, args ...uint64) (uint64, error)
	Close(ctx context.Context) error
}
