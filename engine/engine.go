package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"go.uber.org/zap"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/transcoder"
)

// Engine is a handle to one native engine instance.
//
// An Engine is safe for concurrent use. Share returns another handle to the
// same instance; the instance is destroyed exactly once, when the last
// handle is closed and no call is running on it.
type Engine struct {
	h      *instance
	closed atomic.Bool
}

// instance is the shared native engine object. refs counts open handles
// plus calls in flight.
type instance struct {
	backend Backend
	view    *transcoder.View
	decoder *transcoder.Decoder
	ptr     uint64
	refs    int
	mu      sync.Mutex
}

// Open creates an engine instance from cfg on backend. The backend must stay
// open for the lifetime of the engine.
func Open(ctx context.Context, backend Backend, cfg *osrm.EngineConfig) (*Engine, error) {
	if backend == nil {
		return nil, errors.NilPointer(errors.PhaseResource, nil, "engine.Backend")
	}
	view, err := transcoder.NewView(backend.Memory(), backend.PointerSize())
	if err != nil {
		return nil, err
	}

	ptr, err := create(ctx, backend, view, cfg)
	if err != nil {
		return nil, err
	}
	Logger().Info("engine created",
		zap.String("storage", cfg.StoragePath),
		zap.String("algorithm", cfg.Algorithm.String()),
		zap.Bool("shared_memory", cfg.UseSharedMemory))

	return &Engine{h: &instance{
		backend: backend,
		view:    view,
		decoder: transcoder.NewDecoder(view),
		ptr:     ptr,
		refs:    1,
	}}, nil
}

// create runs osrm_create and returns the engine object. A creation error
// message is copied and released exactly once.
func create(ctx context.Context, backend Backend, view *transcoder.View, cfg *osrm.EngineConfig) (uint64, error) {
	arena := transcoder.NewArena(view, backend.Allocator())
	defer arena.Release()

	cfgPtr, err := transcoder.NewEncoder(arena).Config(cfg)
	if err != nil {
		return 0, err
	}
	slot, err := arena.PtrArray(1)
	if err != nil {
		return 0, err
	}
	if _, err := backend.Call(ctx, FuncCreate, cfgPtr, slot); err != nil {
		return 0, errors.Wrap(errors.PhaseCall, errors.KindBackend, err, FuncCreate)
	}

	cosrm, err := view.ReadPtr(slot)
	if err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read COSRM pointer")
	}
	if cosrm == 0 {
		return 0, errors.NilPointer(errors.PhaseDecode, []string{"COSRM"}, "COSRM")
	}
	info := view.Schema().OSRM
	obj, err := view.ReadPtr(cosrm + uint64(info.Off("obj")))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read COSRM.obj")
	}
	msgPtr, err := view.ReadPtr(cosrm + uint64(info.Off("error_message")))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read COSRM.error_message")
	}

	if msgPtr != 0 {
		if obj != 0 {
			// The engine reported an error but still built an object.
			if _, err := backend.Call(context.WithoutCancel(ctx), FuncDestroy, obj); err != nil {
				Logger().Error("destroy engine after failed create", zap.Error(err))
			}
		}
		rel := newReleaser(backend, FuncDestroyErrorMessage, msgPtr)
		msg, readErr := view.ReadCString(msgPtr)
		relErr := rel.Release(ctx)
		if readErr != nil {
			return 0, readErr
		}
		if !utf8.Valid(msg) {
			return 0, errors.InvalidUTF8(errors.PhaseDecode, []string{"COSRM", "error_message"}, msg)
		}
		engErr := &errors.EngineError{Operation: "create", Message: string(msg)}
		if relErr != nil {
			return 0, errors.Wrap(errors.PhaseCall, errors.KindBackend, relErr, engErr.Error())
		}
		return 0, engErr
	}
	if obj == 0 {
		return 0, &errors.EngineError{Operation: "create", Message: "engine returned no instance"}
	}
	return obj, nil
}

// Share returns a new handle to the same engine instance. Each handle must
// be closed on its own.
func (e *Engine) Share() (*Engine, error) {
	if e.closed.Load() || !e.h.acquire() {
		return nil, errors.Closed("engine")
	}
	return &Engine{h: e.h}, nil
}

// Close releases this handle. The native instance is destroyed when the last
// handle is closed and running calls have returned. Closing a handle twice
// is a no-op.
func (e *Engine) Close(ctx context.Context) error {
	if e.closed.Swap(true) {
		return nil
	}
	return e.h.release(ctx)
}

// PointerSize reports the pointer width of the backend, 4 or 8.
func (e *Engine) PointerSize() uint32 {
	return e.h.view.PtrSize()
}

func (h *instance) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs == 0 {
		return false
	}
	h.refs++
	return true
}

func (h *instance) release(ctx context.Context) error {
	h.mu.Lock()
	h.refs--
	last := h.refs == 0
	h.mu.Unlock()
	if !last {
		return nil
	}
	err := newReleaser(h.backend, FuncDestroy, h.ptr).Release(ctx)
	if err == nil {
		Logger().Info("engine destroyed")
	}
	return err
}

// checkStatus validates the Status returned by an endpoint.
func checkStatus(raw uint64) (int32, error) {
	st := int32(uint32(raw))
	if !abi.StatusDomain.Contains(st) {
		return 0, errors.InvalidEnum(errors.PhaseDecode, []string{"status"}, st, abi.StatusDomain.Name)
	}
	return st, nil
}
