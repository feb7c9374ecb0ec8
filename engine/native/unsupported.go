//go:build !(darwin || freebsd || linux)

package native

import (
	"context"

	osrm "github.com/wippyai/osrm-go"
	"github.com/wippyai/osrm-go/errors"
)

type Config struct {
	LibraryPath string
	LibcPath    string
}

func DefaultConfig() Config { return Config{} }

// Backend cannot be created on this platform.
type Backend struct{}

func Open(Config) (*Backend, error) {
	return nil, errors.Unsupported(errors.PhaseResource, "native backend on this platform")
}

func (*Backend) Memory() osrm.Memory       { return nil }
func (*Backend) Allocator() osrm.Allocator { return nil }
func (*Backend) PointerSize() uint32       { return 8 }

func (*Backend) Call(context.Context, string, ...uint64) (uint64, error) {
	return 0, errors.Unsupported(errors.PhaseCall, "native backend on this platform")
}

func (*Backend) Close(context.Context) error { return nil }
