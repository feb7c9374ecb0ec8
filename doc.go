// Package osrm provides Go bindings for the OSRM routing engine through its C ABI.
//
// The engine itself (contraction hierarchies or multi-level Dijkstra over a
// preprocessed road network) is a native component. This module marshals Go
// requests into the flat, pointer-based structs the ABI expects, invokes the
// engine, decodes the returned result tree into owned Go values and releases
// the native memory exactly once.
//
// # Architecture Overview
//
//	osrm/                Root package: Memory/Allocator interfaces, request and result types
//	├── engine/          Engine handle, call boundary, releaser, telemetry
//	│   ├── native/      libc_osrm loaded with purego
//	│   └── wasm/        OSRM wasm32 builds run by wazero
//	├── internal/        ABI scalars, struct layout, wire schema
//	├── enginetest/      Simulated native heap and scriptable backend for tests
//	├── transcoder/      Request arena, assembler and result decoder
//	├── geometry/        Polyline/GeoJSON route geometry and vector tile decoding
//	├── errors/          Structured error types
//	└── cmd/osrm/        Command line client with an interactive mode
//
// # Quick Start
//
//	backend, err := native.Open(native.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	eng, err := engine.Open(ctx, backend, osrm.DefaultEngineConfig("berlin.osrm"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	req := osrm.NewNearestRequest(osrm.Coordinate{Latitude: 52.517, Longitude: 13.388})
//	res, err := eng.Nearest(ctx, req)
//
// # Ownership
//
// Requests are owned by the caller. During a call they are copied into an
// arena of engine-visible allocations that is freed before the call returns.
// Results are plain Go values with no references into native memory.
//
// # Thread Safety
//
// An engine.Engine may be used from many goroutines at once. Share returns an
// additional holder of the same native instance; the instance is destroyed
// when the last holder is closed.
package osrm
