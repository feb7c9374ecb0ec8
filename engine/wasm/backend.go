package wasm

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/errors"
)

// Default guest allocator exports.
const (
	DefaultAllocExport = "malloc"
	DefaultFreeExport  = "free"
)

// Config configures the runtime hosting the engine module.
type Config struct {
	// HostModules instantiates extra host modules the engine imports,
	// such as an emscripten "env". It runs before the engine module.
	HostModules func(ctx context.Context, r wazero.Runtime) error

	Stdout io.Writer
	Stderr io.Writer

	// FSDir is mounted as the guest root so the engine can open its
	// dataset files. Empty means no file system access.
	FSDir string

	AllocExport string
	FreeExport  string

	// MemoryLimitPages caps guest memory in 64 KiB pages. Zero keeps the
	// wazero default.
	MemoryLimitPages uint32

	// DisableWASI skips instantiating wasi_snapshot_preview1.
	DisableWASI bool
}

// Backend is an engine compiled to wasm32 running under wazero.
// Guest code is single threaded: calls and allocations are serialized.
type Backend struct {
	runtime wazero.Runtime
	module  api.Module
	mem     *memory
	alloc   *allocator
	funcs   map[string]api.Function
	mu      sync.Mutex
	closed  atomic.Bool
}

var _ engine.Backend = (*Backend)(nil)

// Open compiles and instantiates wasmBytes. The module must export its
// linear memory, an allocator pair and every function in engine.Symbols.
func Open(ctx context.Context, wasmBytes []byte, cfg *Config) (*Backend, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	rc := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		rc = rc.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, rc)

	b, err := instantiate(ctx, r, wasmBytes, cfg)
	if err != nil {
		_ = r.Close(ctx)
		return nil, err
	}
	return b, nil
}

func instantiate(ctx context.Context, r wazero.Runtime, wasmBytes []byte, cfg *Config) (*Backend, error) {
	if !cfg.DisableWASI {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
			return nil, errors.Load("instantiate WASI", err)
		}
	}
	if cfg.HostModules != nil {
		if err := cfg.HostModules(ctx, r); err != nil {
			return nil, errors.Load("instantiate host modules", err)
		}
	}

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile engine module", err)
	}
	mc := wazero.NewModuleConfig().WithName("osrm").WithStartFunctions()
	if cfg.Stdout != nil {
		mc = mc.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		mc = mc.WithStderr(cfg.Stderr)
	}
	if cfg.FSDir != "" {
		mc = mc.WithFSConfig(wazero.NewFSConfig().WithDirMount(cfg.FSDir, "/"))
	}
	mod, err := r.InstantiateModule(ctx, compiled, mc)
	if err != nil {
		return nil, errors.Load("instantiate engine module", err)
	}
	// Reactor modules built with wasi-libc need their constructors run.
	if init := mod.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			return nil, errors.Load("initialize engine module", err)
		}
	}

	mem := mod.Memory()
	if mem == nil {
		return nil, errors.NotFound(errors.PhaseResource, "memory export", "memory")
	}

	b := &Backend{runtime: r, module: mod, mem: &memory{mem: mem}, funcs: make(map[string]api.Function)}
	allocName, freeName := cfg.AllocExport, cfg.FreeExport
	if allocName == "" {
		allocName = DefaultAllocExport
	}
	if freeName == "" {
		freeName = DefaultFreeExport
	}
	allocFn := mod.ExportedFunction(allocName)
	if allocFn == nil {
		return nil, errors.NotFound(errors.PhaseResource, "allocator export", allocName)
	}
	freeFn := mod.ExportedFunction(freeName)
	if freeFn == nil {
		return nil, errors.NotFound(errors.PhaseResource, "allocator export", freeName)
	}
	b.alloc = &allocator{mu: &b.mu, allocFn: allocFn, freeFn: freeFn, stackBuf: make([]uint64, 4)}

	for _, name := range engine.Symbols() {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			return nil, errors.NotFound(errors.PhaseResource, "function export", name)
		}
		b.funcs[name] = fn
	}
	engine.Logger().Debug("wasm engine module loaded",
		zap.Int("functions", len(b.funcs)),
		zap.Uint32("memory_bytes", mem.Size()))
	return b, nil
}

func (b *Backend) Memory() osrm.Memory       { return b.mem }
func (b *Backend) Allocator() osrm.Allocator { return b.alloc }
func (b *Backend) PointerSize() uint32       { return 4 }

// Call runs fn in the guest. Pointer arguments are 32-bit guest addresses.
func (b *Backend) Call(ctx context.Context, fn string, args ...uint64) (uint64, error) {
	if b.closed.Load() {
		return 0, errors.Closed("wasm backend")
	}
	f, ok := b.funcs[fn]
	if !ok {
		return 0, errors.NotFound(errors.PhaseCall, "function", fn)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	results, err := f.Call(ctx, args...)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0], nil
}

// Close tears down the runtime and all guest memory.
func (b *Backend) Close(ctx context.Context) error {
	if b.closed.Swap(true) {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runtime.Close(ctx)
}
