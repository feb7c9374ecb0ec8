// Package native loads libc_osrm into the process with purego and exposes it
// as an engine.Backend.
//
// No cgo is involved: the library and libc are opened with dlopen, every
// exported symbol is resolved once at Open, and calls go through
// purego.SyscallN. Request memory comes from libc malloc, so the engine can
// read it like any native caller's data.
//
//	b, err := native.Open(native.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer b.Close(ctx)
//	eng, err := engine.Open(ctx, b, osrm.DefaultEngineConfig("berlin.osrm"))
//
// Supported on linux, darwin and freebsd with a little-endian 64-bit CPU.
package native
