//go:build darwin || freebsd || linux

package native

import (
	"context"
	"runtime"
	"testing"
	"unsafe"

	"github.com/wippyai/osrm-go/errors"
)

func TestProcessMemory(t *testing.T) {
	buf := make([]byte, 32)
	addr := uint64(uintptr(unsafe.Pointer(&buf[0])))
	var m processMemory

	if err := m.WriteU32(addr, 0xdeadbeef); err != nil {
		t.Fatal(err)
	}
	if err := m.WriteU64(addr+8, 1<<40); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(addr+16, []byte("osrm")); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0xef || buf[3] != 0xde {
		t.Errorf("not little endian: % x", buf[:4])
	}
	if v, _ := m.ReadU64(addr + 8); v != 1<<40 {
		t.Errorf("ReadU64 = %d", v)
	}
	if b, _ := m.Read(addr+16, 4); string(b) != "osrm" {
		t.Errorf("Read = %q", b)
	}
	runtime.KeepAlive(buf)
}

func TestProcessMemoryNull(t *testing.T) {
	var m processMemory
	if _, err := m.ReadU32(0); err == nil {
		t.Error("null read succeeded")
	}
	if err := m.WriteU8(0, 1); err == nil {
		t.Error("null write succeeded")
	}
}

func TestAllocator(t *testing.T) {
	a, err := openAllocator(DefaultConfig().LibcPath)
	if err != nil {
		t.Skipf("libc not loadable: %v", err)
	}
	defer a.close()

	p, err := a.Alloc(64, 8)
	if err != nil {
		t.Fatal(err)
	}
	if p%8 != 0 {
		t.Errorf("address %#x not aligned", p)
	}
	var m processMemory
	if err := m.WriteU64(p+56, 7); err != nil {
		t.Fatal(err)
	}
	a.Free(p, 64, 8)

	if _, err := a.Alloc(8, 64); !errors.IsResourceError(err) {
		t.Errorf("over-aligned alloc: got %v", err)
	}
}

func TestOpenMissingLibrary(t *testing.T) {
	_, err := Open(Config{LibraryPath: "/nonexistent/libc_osrm.so"})
	if err == nil {
		t.Fatal("expected load error")
	}
	if !errors.IsResourceError(err) {
		t.Errorf("got %v, want resource error", err)
	}
}

func TestClosedBackend(t *testing.T) {
	b := &Backend{symbols: map[string]uintptr{}}
	b.closed.Store(true)
	if _, err := b.Call(context.Background(), "osrm_route"); !errors.IsResourceError(err) {
		t.Errorf("got %v", err)
	}
}
