// Package wasm runs an OSRM engine compiled to wasm32 under wazero and
// exposes it as an engine.Backend.
//
// The module must export its linear memory, malloc and free (names are
// configurable) and the C ABI functions listed by engine.Symbols. Pointers
// are 4 bytes wide; the engine package picks the matching struct layouts
// from Backend.PointerSize.
//
//	b, err := wasm.Open(ctx, moduleBytes, &wasm.Config{FSDir: "/data"})
//	if err != nil {
//	    return err
//	}
//	defer b.Close(ctx)
//	eng, err := engine.Open(ctx, b, osrm.DefaultEngineConfig("/berlin.osrm"))
//
// wazero instances are single threaded, so the backend holds a lock for
// the duration of each guest call and allocation. Run several backends for
// parallel queries.
package wasm
