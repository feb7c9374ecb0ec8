package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/osrm-go/errors"
)

// releaser runs one native destructor at most once, whichever path reaches
// it first. A null pointer is never passed to the destructor.
type releaser struct {
	backend Backend
	err     error
	fn      string
	ptr     uint64
	once    sync.Once
}

func newReleaser(backend Backend, fn string, ptr uint64) *releaser {
	return &releaser{backend: backend, fn: fn, ptr: ptr}
}

func (r *releaser) Release(ctx context.Context) error {
	r.once.Do(func() {
		if r.ptr == 0 {
			return
		}
		// Destructors must run even when the call's context was cancelled.
		ctx = context.WithoutCancel(ctx)
		if _, err := r.backend.Call(ctx, r.fn, r.ptr); err != nil {
			r.err = errors.ReleaseFailed(r.fn, err)
			Logger().Warn("native release failed",
				zap.String("func", r.fn),
				zap.Uint64("ptr", r.ptr),
				zap.Error(err))
		}
	})
	return r.err
}
