// Package transcoder converts between Go request/result types and the
// flat C layout of the OSRM engine ABI.
//
// The engine's memory is reached through the osrm.Memory interface, so the
// same code serves a native library in process memory (64-bit pointers) and
// an engine compiled to wasm32 (32-bit pointers). A View binds a Memory to
// the struct layouts of one pointer width.
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ Go request → [Encoder → Arena] → wire request → engine       │
//	│ engine → wire result → [Decoder] → Go result                 │
//	└──────────────────────────────────────────────────────────────┘
//
// # Key Types
//
//	View     - pointer-width aware reads and writes over a Memory
//	Arena    - owns every allocation backing one assembled request
//	Encoder  - validates a request, then writes it into an Arena
//	Decoder  - copies an engine-owned result tree into Go values
//
// # Assembly
//
// Validation runs to completion before the first allocation, so a rejected
// request never touches the allocator. Per-coordinate options (bearings,
// radiuses, approaches, hints) are written as arrays of pointers with one
// entry per coordinate; a nil element is a null pointer at that position.
// All pointers stay valid until Arena.Free, which the caller runs after the
// engine call returns.
//
// # Decoding
//
// A collection is a (pointer, count) pair. The pointer is checked first: a
// null pointer yields an empty collection and the count is never read. A
// non-null pointer with a negative or oversized count is a decode error.
// Text is copied and checked for valid UTF-8. Table matrices are row-major:
// one row per source, number_of_destinations cells per row.
//
// Errors carry the path to the offending field:
//
//	[decode] invalid_utf8 at routes.[0].legs.[1].summary: invalid UTF-8 sequence: ff
//	[assemble] invalid_input at bearings: has 2 entries, expected one per coordinate (3)
//
// # Thread Safety
//
// Arenas and Encoders belong to one call. A Decoder holds no state beyond
// its View and may be shared while the underlying memory is not mutated.
package transcoder
