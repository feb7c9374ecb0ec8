package engine

import (
	"context"
	stderrors "errors"

	"github.com/wippyai/osrm-go/errors"
	"github.com/wippyai/osrm-go/internal/abi"
	"github.com/wippyai/osrm-go/transcoder"
)

// roundTrip runs one endpoint call:
//
//  1. assemble req into a fresh arena (nothing reaches the engine on failure)
//  2. call the endpoint with the arena alive
//  3. decode the engine-owned result, or its error envelope
//  4. release the result exactly once, then free the arena
func roundTrip[Req, Res any](ctx context.Context, e *Engine, ep Endpoint, req Req,
	assemble func(*transcoder.Encoder, Req) (uint64, error),
	decode func(*transcoder.Decoder, uint64) (Res, error),
) (res Res, err error) {
	var zero Res
	if e.closed.Load() || !e.h.acquire() {
		return zero, errors.Closed("engine")
	}
	// A failure to destroy the instance here is logged by the releaser; it
	// does not belong to this call's result.
	defer func() { _ = e.h.release(ctx) }()

	ctx, tr := startCall(ctx, ep)
	defer func() { tr.end(ctx, err) }()

	h := e.h
	arena := transcoder.NewArena(h.view, h.backend.Allocator())
	defer arena.Release()

	reqPtr, err := assemble(transcoder.NewEncoder(arena), req)
	if err != nil {
		return zero, err
	}
	slot, err := arena.PtrArray(1)
	if err != nil {
		return zero, err
	}

	raw, callErr := h.backend.Call(ctx, ep.Symbol(), h.ptr, reqPtr, slot)

	// The slot starts out null, so anything in it was produced by the engine
	// and is released even when the call itself reported a failure.
	resultPtr, readErr := h.view.ReadPtr(slot)
	if readErr != nil {
		err = errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, readErr, "read result pointer")
		if callErr != nil {
			err = stderrors.Join(errors.Wrap(errors.PhaseCall, errors.KindBackend, callErr, ep.Symbol()), err)
		}
		return zero, err
	}
	rel := newReleaser(h.backend, ep.DestroySymbol(), resultPtr)
	defer func() {
		if relErr := rel.Release(ctx); relErr != nil && err == nil {
			res, err = zero, relErr
		}
	}()

	if callErr != nil {
		return zero, errors.Wrap(errors.PhaseCall, errors.KindBackend, callErr, ep.Symbol())
	}
	status, err := checkStatus(raw)
	if err != nil {
		return zero, err
	}
	if status == abi.StatusError {
		return zero, engineError(h.decoder, h.view, ep, resultPtr)
	}
	return decode(h.decoder, resultPtr)
}

// engineError builds the error for a non-Ok status from the result envelope.
func engineError(d *transcoder.Decoder, v *transcoder.View, ep Endpoint, result uint64) error {
	ee := &errors.EngineError{Operation: ep.String()}
	info, ok := ep.envelope(v.Schema())
	if !ok || result == 0 {
		return ee
	}
	code, msg, err := d.Envelope(info, result)
	if err != nil {
		return err
	}
	ee.Code = code
	ee.Message = msg
	return ee
}
