// SPDX-License-Identifier: MIT

// Package telemetry wires the OpenTelemetry trace SDK for the ctmc binary.
// Finished spans are written to the process logger; there is no collector
// dependency.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/katalvlaran/ctmc/internal/config"
	"github.com/katalvlaran/ctmc/internal/version"
)

// ShutdownFunc flushes and stops the provider.
type ShutdownFunc func(context.Context) error

// NewTracerProvider returns a provider exporting to logger. When tracing is
// disabled it returns a noop provider and a no-op shutdown.
func NewTracerProvider(cfg config.TelemetryConfig, logger *slog.Logger) (trace.TracerProvider, ShutdownFunc) {
	if !cfg.Tracing {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }
	}
	if logger == nil {
		logger = slog.Default()
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(version.Version),
		),
	)
	if err != nil {
		logger.Warn("failed to create resource, using default", "error", err)
		res = resource.Default()
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(NewLogExporter(logger))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	)

	return tp, tp.Shutdown
}

// Install builds the provider and registers it globally.
func Install(cfg config.TelemetryConfig, logger *slog.Logger) ShutdownFunc {
	tp, shutdown := NewTracerProvider(cfg, logger)
	otel.SetTracerProvider(tp)

	return shutdown
}
