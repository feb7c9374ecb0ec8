package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wippyai/osrm-go/errors"
)

const instrumentationName = "github.com/wippyai/osrm-go/engine"

type instruments struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

var (
	inst     *instruments
	instOnce sync.Once
)

// metrics lazily creates the call instruments on the global meter provider.
// Instruments that fail to register are replaced by no-ops.
func metrics() *instruments {
	instOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		m := &instruments{}
		var err error
		if m.calls, err = meter.Int64Counter("osrm.calls",
			metric.WithDescription("Engine calls by endpoint"),
			metric.WithUnit("{call}")); err != nil {
			Logger().Warn("register osrm.calls", zap.Error(err))
		}
		if m.failures, err = meter.Int64Counter("osrm.errors",
			metric.WithDescription("Failed engine calls by endpoint and error class"),
			metric.WithUnit("{call}")); err != nil {
			Logger().Warn("register osrm.errors", zap.Error(err))
		}
		if m.duration, err = meter.Float64Histogram("osrm.call.duration",
			metric.WithDescription("Duration of engine calls including marshalling"),
			metric.WithUnit("ms")); err != nil {
			Logger().Warn("register osrm.call.duration", zap.Error(err))
		}
		inst = m
	})
	return inst
}

// callTrace tracks one endpoint call for tracing, metrics and debug logs.
type callTrace struct {
	start time.Time
	span  trace.Span
	ep    Endpoint
	id    string
}

func startCall(ctx context.Context, ep Endpoint) (context.Context, *callTrace) {
	id := uuid.NewString()
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "osrm."+ep.String(),
		trace.WithAttributes(
			attribute.String("osrm.endpoint", ep.String()),
			attribute.String("osrm.call_id", id),
		))
	Logger().Debug("engine call", zap.String("endpoint", ep.String()), zap.String("call_id", id))
	return ctx, &callTrace{start: time.Now(), span: span, ep: ep, id: id}
}

func (c *callTrace) end(ctx context.Context, err error) {
	elapsed := float64(time.Since(c.start).Microseconds()) / 1000
	attrs := metric.WithAttributes(attribute.String("endpoint", c.ep.String()))
	m := metrics()

	if m.calls != nil {
		m.calls.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed, attrs)
	}
	if err != nil {
		class := errorClass(err)
		if m.failures != nil {
			m.failures.Add(ctx, 1, metric.WithAttributes(
				attribute.String("endpoint", c.ep.String()),
				attribute.String("class", class)))
		}
		c.span.SetAttributes(attribute.String("osrm.status", class))
		c.span.RecordError(err)
		c.span.SetStatus(codes.Error, class)
		Logger().Debug("engine call failed",
			zap.String("endpoint", c.ep.String()),
			zap.String("call_id", c.id),
			zap.String("class", class),
			zap.Float64("ms", elapsed),
			zap.Error(err))
	} else {
		c.span.SetAttributes(attribute.String("osrm.status", "ok"))
		Logger().Debug("engine call done",
			zap.String("endpoint", c.ep.String()),
			zap.String("call_id", c.id),
			zap.Float64("ms", elapsed))
	}
	c.span.End()
}

func errorClass(err error) string {
	switch {
	case errors.IsEngineError(err):
		return "engine"
	case errors.IsInvalidRequest(err):
		return "invalid_request"
	case errors.IsDecodeViolation(err):
		return "decode"
	case errors.IsResourceError(err):
		return "resource"
	}
	return "call"
}
