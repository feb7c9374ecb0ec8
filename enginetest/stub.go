package enginetest

import (
	"context"
	"fmt"
	"sync"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/internal/layout"
)

// Handler answers one endpoint call. req is the address of the assembled
// request inside the stub's heap. It returns the status to report and the
// root of the result tree to hand back, usually built with w.
type Handler func(req uint64, w *Writer) (status int32, result uint64, err error)

// Reply answers with an Ok status and the tree built by build.
func Reply(build func(w *Writer) (uint64, error)) Handler {
	return func(_ uint64, w *Writer) (int32, uint64, error) {
		root, err := build(w)
		return abi.StatusOk, root, err
	}
}

// Stub is an in-process Backend that behaves like libc_osrm on a 64-bit
// host. Results come from per-endpoint handlers and live in a checked Heap,
// so every release, double release and use after free is observable.
type Stub struct {
	Heap   *Heap
	Writer *Writer

	mu         sync.Mutex
	handlers   map[engine.Endpoint]Handler
	symbols    map[string]symbol
	calls      map[string]int
	releases   map[uint64]int
	callErrs   map[string]error
	violations []string
	instances  map[uint64]bool
	createMsg  string
	createObj  bool
	storage    string
	closed     bool
}

type symbol struct {
	ep      engine.Endpoint
	destroy bool
}

// NewStub returns a stub with a 4 MiB heap and no handlers.
func NewStub() *Stub {
	h := NewHeap(4 << 20)
	s := &Stub{
		Heap:      h,
		Writer:    NewWriter(h),
		handlers:  map[engine.Endpoint]Handler{},
		symbols:   map[string]symbol{},
		calls:     map[string]int{},
		releases:  map[uint64]int{},
		callErrs:  map[string]error{},
		instances: map[uint64]bool{},
	}
	for _, ep := range engine.Endpoints {
		s.symbols[ep.Symbol()] = symbol{ep: ep}
		s.symbols[ep.DestroySymbol()] = symbol{ep: ep, destroy: true}
	}
	return s
}

// Handle installs the handler for ep.
func (s *Stub) Handle(ep engine.Endpoint, h Handler) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[ep] = h
	return s
}

// Fail makes ep answer with an Error status and the given envelope.
func (s *Stub) Fail(ep engine.Endpoint, code, message string) *Stub {
	info, ok := s.envelope(ep)
	return s.Handle(ep, func(_ uint64, w *Writer) (int32, uint64, error) {
		if !ok {
			return abi.StatusError, 0, nil
		}
		root, err := w.Failure(info, code, message)
		return abi.StatusError, root, err
	})
}

// CreateError makes osrm_create report msg. With withObject set the engine
// also hands back an instance, which the caller must destroy.
func (s *Stub) CreateError(msg string, withObject bool) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createMsg = msg
	s.createObj = withObject
	return s
}

// FailCall makes every call of fn return err without running it.
func (s *Stub) FailCall(fn string, err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callErrs[fn] = err
	return s
}

// Calls reports how many times fn was invoked.
func (s *Stub) Calls(fn string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[fn]
}

// Releases reports how many destroy calls named ptr.
func (s *Stub) Releases(ptr uint64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases[ptr]
}

// Instances reports the engine objects created and not yet destroyed.
func (s *Stub) Instances() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, live := range s.instances {
		if live {
			n++
		}
	}
	return n
}

// StoragePath returns the storage_config string seen by the last create.
func (s *Stub) StoragePath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage
}

// Violations returns every ownership error seen by the stub or its heap.
func (s *Stub) Violations() []string {
	s.mu.Lock()
	out := append([]string(nil), s.violations...)
	s.mu.Unlock()
	return append(out, s.Heap.Violations()...)
}

// Leaks reports live heap blocks and unreleased result trees.
func (s *Stub) Leaks() (blocks, trees int) {
	return s.Heap.LiveCount(), s.Writer.Trees()
}

// Backend

func (s *Stub) Memory() osrm.Memory       { return s.Heap }
func (s *Stub) Allocator() osrm.Allocator { return s.Heap }
func (s *Stub) PointerSize() uint32       { return 8 }

func (s *Stub) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Stub) Call(_ context.Context, fn string, args ...uint64) (uint64, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0, fmt.Errorf("stub backend closed")
	}
	s.calls[fn]++
	callErr := s.callErrs[fn]
	s.mu.Unlock()
	if callErr != nil {
		return 0, callErr
	}

	switch fn {
	case engine.FuncCreate:
		return 0, s.create(args)
	case engine.FuncDestroy:
		return 0, s.destroy(args)
	case engine.FuncDestroyErrorMessage:
		if err := arity(fn, args, 1); err != nil {
			return 0, err
		}
		s.countRelease(args[0])
		s.Writer.Release(args[0])
		return 0, nil
	}

	sym, ok := s.symbols[fn]
	if !ok {
		return 0, fmt.Errorf("unknown function %q", fn)
	}
	if sym.destroy {
		if err := arity(fn, args, 1); err != nil {
			return 0, err
		}
		s.countRelease(args[0])
		s.Writer.Release(args[0])
		return 0, nil
	}
	return s.serve(fn, sym.ep, args)
}

func (s *Stub) create(args []uint64) error {
	if err := arity(engine.FuncCreate, args, 2); err != nil {
		return err
	}
	cfg, slot := args[0], args[1]
	view := s.Writer.View()
	sc := view.Schema()

	if p, err := view.ReadPtr(cfg + uint64(sc.EngineConfig.Off("storage_config"))); err != nil {
		return err
	} else if p != 0 {
		b, err := view.ReadCString(p)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.storage = string(b)
		s.mu.Unlock()
	}

	s.mu.Lock()
	msg, withObj := s.createMsg, s.createObj
	s.mu.Unlock()

	// The COSRM struct itself is never handed back for release.
	cosrm, err := s.Heap.Alloc(sc.OSRM.Size, sc.OSRM.Align)
	if err != nil {
		return err
	}
	var obj, msgPtr uint64
	if msg == "" || withObj {
		if obj, err = s.Heap.Alloc(8, 8); err != nil {
			return err
		}
		s.mu.Lock()
		s.instances[obj] = true
		s.mu.Unlock()
	}
	if msg != "" {
		if msgPtr, err = s.Writer.CString(msg); err != nil {
			return err
		}
	}
	if err := view.WritePtr(cosrm+uint64(sc.OSRM.Off("obj")), obj); err != nil {
		return err
	}
	if err := view.WritePtr(cosrm+uint64(sc.OSRM.Off("error_message")), msgPtr); err != nil {
		return err
	}
	return view.WritePtr(slot, cosrm)
}

func (s *Stub) destroy(args []uint64) error {
	if err := arity(engine.FuncDestroy, args, 1); err != nil {
		return err
	}
	obj := args[0]
	s.countRelease(obj)
	s.mu.Lock()
	live, known := s.instances[obj]
	switch {
	case !known:
		s.violations = append(s.violations, fmt.Sprintf("destroy of unknown engine %#x", obj))
	case !live:
		s.violations = append(s.violations, fmt.Sprintf("engine %#x destroyed twice", obj))
	}
	s.instances[obj] = false
	s.mu.Unlock()
	if known && live {
		s.Heap.Free(obj, 8, 8)
	}
	return nil
}

func (s *Stub) serve(fn string, ep engine.Endpoint, args []uint64) (uint64, error) {
	if err := arity(fn, args, 3); err != nil {
		return 0, err
	}
	obj, req, slot := args[0], args[1], args[2]

	s.mu.Lock()
	h := s.handlers[ep]
	if !s.instances[obj] {
		s.violations = append(s.violations, fmt.Sprintf("%s on dead engine %#x", fn, obj))
	}
	s.mu.Unlock()
	if h == nil {
		return 0, fmt.Errorf("no handler for %s", fn)
	}
	if !s.Heap.IsLive(req) {
		s.mu.Lock()
		s.violations = append(s.violations, fmt.Sprintf("%s request %#x not live", fn, req))
		s.mu.Unlock()
	}

	status, root, err := h(req, s.Writer)
	if err != nil {
		return 0, err
	}
	if err := s.Writer.View().WritePtr(slot, root); err != nil {
		return 0, err
	}
	return uint64(uint32(status)), nil
}

func (s *Stub) countRelease(ptr uint64) {
	s.mu.Lock()
	s.releases[ptr]++
	s.mu.Unlock()
}

func (s *Stub) envelope(ep engine.Endpoint) (layout.Info, bool) {
	sc := s.Writer.Schema()
	switch ep {
	case engine.EndpointNearest:
		return sc.NearestResult, true
	case engine.EndpointRoute:
		return sc.RouteResult, true
	case engine.EndpointTable:
		return sc.TableResult, true
	case engine.EndpointMatch:
		return sc.MatchResult, true
	case engine.EndpointTrip:
		return sc.TripResult, true
	}
	return layout.Info{}, false
}

func arity(fn string, args []uint64, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s: got %d arguments, want %d", fn, len(args), n)
	}
	return nil
}
