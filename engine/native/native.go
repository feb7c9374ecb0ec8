//go:build darwin || freebsd || linux

package native

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/errors"
)

// Config selects the shared libraries to load.
type Config struct {
	// LibraryPath is the OSRM C wrapper, resolved by the dynamic loader
	// when it has no slash.
	LibraryPath string

	// LibcPath provides malloc and free.
	LibcPath string
}

// DefaultConfig returns the platform's usual library names.
func DefaultConfig() Config {
	switch runtime.GOOS {
	case "darwin":
		return Config{LibraryPath: "libc_osrm.dylib", LibcPath: "/usr/lib/libSystem.B.dylib"}
	case "freebsd":
		return Config{LibraryPath: "libc_osrm.so", LibcPath: "libc.so.7"}
	}
	return Config{LibraryPath: "libc_osrm.so", LibcPath: "libc.so.6"}
}

// Backend is libc_osrm loaded into the current process.
type Backend struct {
	lib     uintptr
	symbols map[string]uintptr
	alloc   *allocator
	closed  atomic.Bool
}

var _ engine.Backend = (*Backend)(nil)

// Open loads the library and resolves every engine symbol.
func Open(cfg Config) (*Backend, error) {
	def := DefaultConfig()
	if cfg.LibraryPath == "" {
		cfg.LibraryPath = def.LibraryPath
	}
	if cfg.LibcPath == "" {
		cfg.LibcPath = def.LibcPath
	}

	alloc, err := openAllocator(cfg.LibcPath)
	if err != nil {
		return nil, err
	}
	lib, err := purego.Dlopen(cfg.LibraryPath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		alloc.close()
		return nil, errors.Load("open "+cfg.LibraryPath, err)
	}

	b := &Backend{lib: lib, symbols: make(map[string]uintptr), alloc: alloc}
	for _, name := range engine.Symbols() {
		sym, err := purego.Dlsym(lib, name)
		if err != nil {
			_ = purego.Dlclose(lib)
			alloc.close()
			return nil, errors.Load("resolve "+name+" in "+cfg.LibraryPath, err)
		}
		b.symbols[name] = sym
	}
	engine.Logger().Debug("native library loaded",
		zap.String("library", cfg.LibraryPath),
		zap.Int("symbols", len(b.symbols)))
	return b, nil
}

func (b *Backend) Memory() osrm.Memory       { return processMemory{} }
func (b *Backend) Allocator() osrm.Allocator { return b.alloc }
func (b *Backend) PointerSize() uint32       { return 8 }

// Call invokes fn with integer arguments. Native code cannot be
// interrupted, so ctx is only checked before the call.
func (b *Backend) Call(ctx context.Context, fn string, args ...uint64) (uint64, error) {
	if b.closed.Load() {
		return 0, errors.Closed("native backend")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	sym, ok := b.symbols[fn]
	if !ok {
		return 0, errors.NotFound(errors.PhaseCall, "function", fn)
	}
	uargs := make([]uintptr, len(args))
	for i, a := range args {
		uargs[i] = uintptr(a)
	}
	r1, _, _ := purego.SyscallN(sym, uargs...)
	return uint64(r1), nil
}

// Close unloads the library. Engines opened on the backend must be closed
// first.
func (b *Backend) Close(context.Context) error {
	if b.closed.Swap(true) {
		return nil
	}
	b.alloc.close()
	if err := purego.Dlclose(b.lib); err != nil {
		return errors.Wrap(errors.PhaseResource, errors.KindLoad, err, "close library")
	}
	return nil
}
