// Package telemetry mirrors recording sessions as OTLP trace spans: the
// session is the root span and marker-to-marker phases are its children.
// Export only happens when OTEL_EXPORTER_OTLP_ENDPOINT is set.
package telemetry

import (
	"context"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Recorder turns session lifecycle calls into spans. All methods are safe on
// a nil receiver, which is how the bridge runs when no endpoint is set.
type Recorder struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer

	mu         sync.Mutex
	sessionCtx context.Context
	session    oteltrace.Span
	phase      oteltrace.Span
}

// NewRecorder creates a recorder if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// Returns nil if the endpoint is not configured (disabled).
func NewRecorder(ctx context.Context) (*Recorder, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "physiobridge"
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &Recorder{
		provider: provider,
		tracer:   provider.Tracer("physiobridge/session"),
	}, nil
}

// SessionStarted opens the root span for a recording session.
func (r *Recorder) SessionStarted(sessionID, subjectID string, at time.Time) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, span := r.tracer.Start(context.Background(), "session",
		oteltrace.WithTimestamp(at),
		oteltrace.WithAttributes(
			attribute.String("physiobridge.session.id", sessionID),
			attribute.String("physiobridge.subject.id", subjectID),
		),
	)
	r.sessionCtx = ctx
	r.session = span
}

// MarkerSet closes the running phase span, if any, and opens the next one
// named after the marker label.
func (r *Recorder) MarkerSet(label string, at time.Time) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return
	}

	if r.phase != nil {
		r.phase.End(oteltrace.WithTimestamp(at))
	}
	_, span := r.tracer.Start(r.sessionCtx, "phase: "+label,
		oteltrace.WithTimestamp(at),
		oteltrace.WithAttributes(
			attribute.String("physiobridge.marker.label", label),
		),
	)
	r.phase = span
}

// SessionStopped closes the open phase and the root span, stamping the
// transmit counters on the session.
func (r *Recorder) SessionStopped(packets, bytes uint64, at time.Time) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return
	}

	if r.phase != nil {
		r.phase.End(oteltrace.WithTimestamp(at))
		r.phase = nil
	}
	r.session.SetAttributes(
		attribute.Int64("physiobridge.udp.packets", int64(packets)),
		attribute.Int64("physiobridge.udp.bytes", int64(bytes)),
	)
	r.session.End(oteltrace.WithTimestamp(at))
	r.session = nil
	r.sessionCtx = nil
}

// Shutdown flushes and closes the exporter.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
