// Package engine runs requests against an OSRM engine instance through a
// Backend that exposes the engine's C ABI.
//
// # Architecture
//
//	Backend  - a loaded library: memory, allocator, exported functions
//	Engine   - a reference-counted handle to one engine instance
//	Endpoint - one service (nearest, route, table, match, trip, tile)
//
// Two backends ship with the module: engine/native loads libc_osrm with
// purego and works on process memory, engine/wasm runs an engine compiled to
// wasm32 under wazero. Both satisfy the same interface, so everything above
// the Backend is independent of pointer width.
//
// # Call Flow
//
// Each endpoint method performs one round trip:
//
//  1. The request is validated and assembled into an arena owned by the call
//  2. osrm_<endpoint>(instance, request, &result) runs with the arena alive
//  3. On Ok the result tree is decoded into Go values; on Error the code and
//     message are copied into an *errors.EngineError
//  4. <endpoint>_result_destroy runs exactly once, whatever happened in 3
//  5. The arena is freed
//
// A request that fails validation never reaches the engine.
//
// # Lifecycle
//
//	eng, err := engine.Open(ctx, backend, osrm.DefaultEngineConfig(path))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close(ctx)
//
//	worker, _ := eng.Share()
//	go func() {
//	    defer worker.Close(ctx)
//	    worker.Route(ctx, req)
//	}()
//
// The instance is destroyed once, after the last handle is closed and calls
// running on it have returned. Calls on a closed handle fail with a closed
// error.
//
// # Observability
//
// Every call opens an OpenTelemetry span named osrm.<endpoint> and records
// the osrm.calls, osrm.errors and osrm.call.duration instruments on the
// global providers. Debug logs go to the zap logger installed with
// SetLogger, which defaults to a no-op logger.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Concurrency inside the engine is the
// backend's concern: the native library accepts parallel queries, the wasm
// backend serializes them.
package engine
