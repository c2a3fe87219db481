// SPDX-License-Identifier: MIT

package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogExporter writes each finished span as one debug record.
type LogExporter struct {
	logger  *slog.Logger
	stopped atomic.Bool
}

var _ sdktrace.SpanExporter = (*LogExporter)(nil)

// NewLogExporter returns an exporter on logger; nil means slog.Default().
func NewLogExporter(logger *slog.Logger) *LogExporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogExporter{logger: logger}
}

// ExportSpans logs spans; failed spans are logged at warn level.
func (e *LogExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.stopped.Load() {
		return nil
	}
	for _, s := range spans {
		attrs := []any{
			"span", s.Name(),
			"trace_id", s.SpanContext().TraceID().String(),
			"span_id", s.SpanContext().SpanID().String(),
			"duration", s.EndTime().Sub(s.StartTime()),
		}
		if p := s.Parent(); p.IsValid() {
			attrs = append(attrs, "parent_id", p.SpanID().String())
		}
		for _, kv := range s.Attributes() {
			attrs = append(attrs, string(kv.Key), kv.Value.AsInterface())
		}

		level := slog.LevelDebug
		if s.Status().Code == codes.Error {
			level = slog.LevelWarn
			attrs = append(attrs, "status", s.Status().Description)
		}
		e.logger.Log(ctx, level, "span", attrs...)
	}

	return nil
}

// Shutdown stops further exports.
func (e *LogExporter) Shutdown(context.Context) error {
	e.stopped.Store(true)

	return nil
}
