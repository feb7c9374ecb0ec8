package wasm

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/engine"
	"github.com/wippyai/osrm-go/errors"
)

const (
	i32 = api.ValueTypeI32
)

type sig struct {
	params  []api.ValueType
	results []api.ValueType
}

// exports lists the functions the test module forwards to the host "env"
// module, in function index order.
func exports() []string {
	return append([]string{"malloc", "free"}, engine.Symbols()...)
}

func signature(name string) sig {
	switch name {
	case "malloc":
		return sig{[]api.ValueType{i32}, []api.ValueType{i32}}
	case engine.FuncCreate:
		return sig{[]api.ValueType{i32, i32}, nil}
	}
	for _, ep := range engine.Endpoints {
		if name == ep.Symbol() {
			return sig{[]api.ValueType{i32, i32, i32}, []api.ValueType{i32}}
		}
	}
	return sig{[]api.ValueType{i32}, nil}
}

// guestModule builds a wasm module that imports every function from "env"
// and exports a local wrapper calling it, plus one page of memory.
func guestModule() []byte {
	names := exports()
	var types, imports, funcs, exps, code []byte
	var ntypes uint32

	typeIndex := map[string]uint32{}
	for _, n := range names {
		s := signature(n)
		key := string(s.params) + "|" + string(s.results)
		if _, ok := typeIndex[key]; ok {
			continue
		}
		typeIndex[key] = ntypes
		ntypes++
		types = append(types, 0x60)
		types = appendVec(types, s.params)
		types = appendVec(types, s.results)
	}
	idx := func(n string) uint32 {
		s := signature(n)
		return typeIndex[string(s.params)+"|"+string(s.results)]
	}

	for _, n := range names {
		imports = appendName(imports, "env")
		imports = appendName(imports, n)
		imports = append(imports, 0x00)
		imports = binary.AppendUvarint(imports, uint64(idx(n)))
	}
	imported := uint32(len(names))
	for i, n := range names {
		funcs = binary.AppendUvarint(funcs, uint64(idx(n)))

		var body []byte
		body = append(body, 0x00) // no locals
		for p := range signature(n).params {
			body = append(body, 0x20)
			body = binary.AppendUvarint(body, uint64(p))
		}
		body = append(body, 0x10)
		body = binary.AppendUvarint(body, uint64(i))
		body = append(body, 0x0b)
		code = binary.AppendUvarint(code, uint64(len(body)))
		code = append(code, body...)

		exps = appendName(exps, n)
		exps = append(exps, 0x00)
		exps = binary.AppendUvarint(exps, uint64(imported+uint32(i)))
	}
	exps = appendName(exps, "memory")
	exps = append(exps, 0x02, 0x00)

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = appendSection(out, 1, ntypes, types)
	out = appendSection(out, 2, uint32(len(names)), imports)
	out = appendSection(out, 3, uint32(len(names)), funcs)
	out = appendSection(out, 5, 1, []byte{0x00, 0x01})
	out = appendSection(out, 7, uint32(len(names))+1, exps)
	out = appendSection(out, 10, uint32(len(names)), code)
	return out
}

func appendVec(b []byte, vt []api.ValueType) []byte {
	b = binary.AppendUvarint(b, uint64(len(vt)))
	return append(b, vt...)
}

func appendName(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendSection(b []byte, id byte, count uint32, body []byte) []byte {
	payload := binary.AppendUvarint(nil, uint64(count))
	payload = append(payload, body...)
	b = append(b, id)
	b = binary.AppendUvarint(b, uint64(len(payload)))
	return append(b, payload...)
}

// host is a fake libc_osrm living in the "env" module. It lays out a tile
// result in guest memory with 32-bit pointers.
type host struct {
	next     uint32
	live     map[uint32]bool
	calls    map[string]int
	tileData []byte
}

func newHost() *host {
	return &host{next: 1024, live: map[uint32]bool{}, calls: map[string]int{}}
}

func (h *host) malloc(size uint32) uint32 {
	p := (h.next + 7) &^ 7
	h.next = p + size
	h.live[p] = true
	return p
}

func (h *host) instantiate(ctx context.Context, r wazero.Runtime) error {
	b := r.NewHostModuleBuilder("env")
	for _, name := range exports() {
		s := signature(name)
		b = b.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
				h.calls[name]++
				h.dispatch(name, mod.Memory(), stack)
			}), s.params, s.results).
			Export(name)
	}
	_, err := b.Instantiate(ctx)
	return err
}

func (h *host) dispatch(name string, mem api.Memory, stack []uint64) {
	switch name {
	case "malloc":
		stack[0] = uint64(h.malloc(uint32(stack[0])))
	case "free":
		delete(h.live, uint32(stack[0]))
	case engine.FuncCreate:
		slot := uint32(stack[1])
		cosrm := h.malloc(8)
		mem.WriteUint32Le(cosrm, h.malloc(4)) // obj
		mem.WriteUint32Le(cosrm+4, 0)        // error_message
		mem.WriteUint32Le(slot, cosrm)
	case "osrm_tile":
		req, slot := uint32(stack[1]), uint32(stack[2])
		z, _ := mem.ReadUint32Le(req + 8)
		data := append([]byte{byte(z)}, h.tileData...)
		buf := h.malloc(uint32(len(data)))
		mem.Write(buf, data)
		res := h.malloc(8)
		mem.WriteUint32Le(res, buf)
		mem.WriteUint32Le(res+4, uint32(len(data)))
		mem.WriteUint32Le(slot, res)
		stack[0] = 0
	}
}

func openTest(t *testing.T, h *host) *Backend {
	t.Helper()
	ctx := context.Background()
	b, err := Open(ctx, guestModule(), &Config{HostModules: h.instantiate, DisableWASI: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close(ctx) })
	return b
}

func TestBackendMemoryAndAllocator(t *testing.T) {
	h := newHost()
	b := openTest(t, h)

	if b.PointerSize() != 4 {
		t.Errorf("PointerSize = %d", b.PointerSize())
	}
	p, err := b.Allocator().Alloc(16, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !h.live[uint32(p)] {
		t.Errorf("allocation %d not made by guest malloc", p)
	}
	if err := b.Memory().WriteU64(p, 0x0102030405060708); err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Memory().ReadU32(p); v != 0x05060708 {
		t.Errorf("ReadU32 = %#x", v)
	}
	b.Allocator().Free(p, 16, 8)
	if h.live[uint32(p)] {
		t.Error("guest free not called")
	}

	if _, err := b.Memory().ReadU8(1 << 33); err == nil {
		t.Error("read above 4 GiB succeeded")
	}
	if _, err := b.Memory().Read(65530, 16); err == nil {
		t.Error("read past memory end succeeded")
	}
}

func TestEngineOverWasm(t *testing.T) {
	ctx := context.Background()
	h := newHost()
	h.tileData = []byte{0x1a, 0x00, 0x7f}
	b := openTest(t, h)

	eng, err := engine.Open(ctx, b, osrm.DefaultEngineConfig("/berlin.osrm"))
	if err != nil {
		t.Fatal(err)
	}
	res, err := eng.Tile(ctx, &osrm.TileRequest{X: 8800, Y: 5373, Z: 14})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{14, 0x1a, 0x00, 0x7f}
	if string(res.Data) != string(want) {
		t.Errorf("tile = %x, want %x", res.Data, want)
	}
	if h.calls["tile_result_destroy"] != 1 {
		t.Errorf("tile_result_destroy called %d times", h.calls["tile_result_destroy"])
	}
	if err := eng.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if h.calls[engine.FuncDestroy] != 1 {
		t.Errorf("osrm_destroy called %d times", h.calls[engine.FuncDestroy])
	}
}

func TestMissingExport(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, guestModule(), &Config{
		HostModules: newHost().instantiate,
		DisableWASI: true,
		AllocExport: "cabi_realloc",
	})
	if !errors.IsResourceError(err) {
		t.Errorf("got %v, want resource error", err)
	}
}

func TestClosedBackend(t *testing.T) {
	b := openTest(t, newHost())
	if err := b.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Call(context.Background(), engine.FuncDestroy, 8); !errors.IsResourceError(err) {
		t.Errorf("got %v", err)
	}
}
