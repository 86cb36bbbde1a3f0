package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/franchise-service/config"
)

var (
	tracer          trace.Tracer
	tracerProvider  *sdktrace.TracerProvider
	detectedService string
)

// untracedPaths are probe and scrape endpoints kept out of traces.
var untracedPaths = []string{
	"/health", "/healthz", "/ready", "/readyz", "/livez",
	"/metrics", "/favicon.ico",
}

// InitTracing installs the global OTLP/HTTP tracer provider and the W3C
// propagators.
//
//	tp, err := middleware.InitTracing(cfg)
//	defer middleware.Shutdown(ctx)
func InitTracing(cfg *config.Config) (*sdktrace.TracerProvider, error) {
	if !cfg.Tracing.Enabled {
		return nil, errors.New("tracing is disabled (TRACING_ENABLED=false)")
	}
	if cfg.Tracing.Endpoint == "" {
		return nil, errors.New("OTEL_COLLECTOR_ENDPOINT is required when tracing is enabled")
	}
	if cfg.Tracing.SampleRate < 0 || cfg.Tracing.SampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got: %.2f", cfg.Tracing.SampleRate)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exporter, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(cfg.Tracing.Endpoint),
		otlptracehttp.WithInsecure(), // Use TLS in production
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// A partial detection failure still yields a usable resource.
	res, _ := CreateResource(ctx)

	detectedService = GetServiceName(res)
	if detectedService == "" || detectedService == unknownService {
		detectedService = cfg.Tracing.ServiceName
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithExportTimeout(30*time.Second),
			sdktrace.WithMaxExportBatchSize(cfg.Tracing.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRate)),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	tracer = otel.Tracer(detectedService)
	return tracerProvider, nil
}

func shouldTrace(path string) bool {
	for _, skip := range untracedPaths {
		if strings.HasPrefix(path, skip) {
			return false
		}
	}
	return true
}

// TracingMiddleware wraps otelgin, skipping probe and metrics endpoints.
// Register it after InitTracing so the detected service name is used.
func TracingMiddleware() gin.HandlerFunc {
	serviceName := detectedService
	if serviceName == "" {
		serviceName = unknownService
	}

	otelMiddleware := otelgin.Middleware(
		serviceName,
		otelgin.WithTracerProvider(otel.GetTracerProvider()),
	)

	return func(c *gin.Context) {
		if !shouldTrace(c.Request.URL.Path) {
			c.Next()
			return
		}
		otelMiddleware(c)
	}
}

// GetTracer returns the service tracer. Before InitTracing it is backed by
// the global no-op provider.
func GetTracer() trace.Tracer {
	if tracer == nil {
		serviceName := detectedService
		if serviceName == "" {
			serviceName = unknownService
		}
		tracer = otel.Tracer(serviceName)
	}
	return tracer
}

// StartSpan starts a span on the service tracer.
//
//	ctx, span := middleware.StartSpan(ctx, "preferences.add")
//	defer span.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	//nolint:spancheck // span is returned to caller who is responsible for calling span.End()
	return GetTracer().Start(ctx, name, opts...)
}

// Shutdown flushes pending spans and stops the tracer provider.
func Shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	if err := tracerProvider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to flush traces: %w", err)
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}
