package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumescore/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "resumescore"

// Manager owns the tracer and meter providers for the process.
type Manager struct {
	config            config.ObservabilityConfig
	tracerProvider    *trace.TracerProvider
	meterProvider     *sdkmetric.MeterProvider
	metrics           *Metrics
	prometheusHandler http.Handler
	shutdownFuncs     []func(context.Context) error
}

// Option customizes exporters, mostly for tests.
type Option func(*options)

type options struct {
	spanExporter trace.SpanExporter
	readers      []sdkmetric.Reader
}

// WithSpanExporter replaces the configured span exporter.
func WithSpanExporter(exporter trace.SpanExporter) Option {
	return func(o *options) { o.spanExporter = exporter }
}

// WithMetricReader adds a metric reader next to the configured ones.
func WithMetricReader(reader sdkmetric.Reader) Option {
	return func(o *options) { o.readers = append(o.readers, reader) }
}

// NewManager sets up tracing and metrics. A disabled configuration yields
// a manager whose tracer is a no-op and whose metrics are nil.
func NewManager(cfg config.ObservabilityConfig, version string, opts ...Option) (*Manager, error) {
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = version
	}
	om := &Manager{config: cfg}
	if !cfg.Enabled {
		return om, nil
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res, err := om.newResource()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resource: %w", err)
	}
	if err := om.initTracing(res, o.spanExporter); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.initMetrics(res, o.readers); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	return om, nil
}

func (om *Manager) newResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", om.config.ServiceInstance),
		),
	)
}

func (om *Manager) initTracing(res *resource.Resource, exporter trace.SpanExporter) error {
	if exporter == nil {
		var err error
		exporter, err = om.newSpanExporter()
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
	}

	var providerOpts []trace.TracerProviderOption
	if exporter != nil {
		providerOpts = append(providerOpts, trace.WithBatcher(exporter))
	}
	providerOpts = append(providerOpts,
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(om.config.SampleRate))),
	)

	tp := trace.NewTracerProvider(providerOpts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	om.tracerProvider = tp
	om.shutdownFuncs = append(om.shutdownFuncs, tp.Shutdown)
	return nil
}

// newSpanExporter picks stdout for local runs and OTLP in production.
// Spans are dropped when neither is configured.
func (om *Manager) newSpanExporter() (trace.SpanExporter, error) {
	switch {
	case om.config.ConsoleOutput:
		var opts []stdouttrace.Option
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		return stdouttrace.New(opts...)
	case om.config.OTLP.Enabled:
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(om.config.OTLP.Endpoint)}
		if om.config.OTLP.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		if len(om.config.OTLP.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(om.config.OTLP.Headers))
		}
		return otlptracehttp.New(context.Background(), opts...)
	default:
		return nil, nil
	}
}

func (om *Manager) initMetrics(res *resource.Resource, extra []sdkmetric.Reader) error {
	readers, err := om.metricReaders()
	if err != nil {
		return err
	}
	readers = append(readers, extra...)
	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	providerOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range readers {
		providerOpts = append(providerOpts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(providerOpts...)
	otel.SetMeterProvider(mp)

	om.meterProvider = mp
	om.shutdownFuncs = append(om.shutdownFuncs, mp.Shutdown)

	metrics, err := newMetrics(mp.Meter(instrumentationName), om.config.CustomMetrics)
	if err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	om.metrics = metrics
	return nil
}

func (om *Manager) metricReaders() ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader
	interval := om.collectionInterval()

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create console metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.config.OTLP.Enabled {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(om.config.OTLP.Endpoint)}
		if om.config.OTLP.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(om.config.OTLP.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(om.config.OTLP.Headers))
		}
		exporter, err := otlpmetrichttp.New(context.Background(), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval)))
	}

	if om.config.Prometheus.Enabled {
		reader, handler, err := SetupPrometheusExporter(om.config.Prometheus)
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
		om.prometheusHandler = handler
	}

	return readers, nil
}

func (om *Manager) collectionInterval() time.Duration {
	if om.config.CollectionInterval > 0 {
		return om.config.CollectionInterval
	}
	return 15 * time.Second
}

// Enabled reports whether providers were installed.
func (om *Manager) Enabled() bool {
	return om != nil && om.tracerProvider != nil
}

// Metrics returns the domain instruments. The result is nil when disabled,
// and every recording method accepts a nil receiver.
func (om *Manager) Metrics() *Metrics {
	if om == nil {
		return nil
	}
	return om.metrics
}

// PrometheusHandler serves the scrape endpoint, or is nil when Prometheus is off.
func (om *Manager) PrometheusHandler() http.Handler {
	if om == nil {
		return nil
	}
	return om.prometheusHandler
}

// HTTPMiddleware wraps handlers with otelhttp spans and request metrics.
func (om *Manager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracerProvider),
		otelhttp.WithMeterProvider(om.meterProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}

// Tracer returns a named tracer, or a no-op tracer when disabled.
func (om *Manager) Tracer(name string) oteltrace.Tracer {
	if !om.Enabled() {
		return noop.NewTracerProvider().Tracer(name)
	}
	return om.tracerProvider.Tracer(name)
}

// Trace runs fn inside a span, marking the span failed when fn errors.
func (om *Manager) Trace(ctx context.Context, name string, fn func(context.Context) error, attrs ...attribute.KeyValue) error {
	ctx, span := om.Tracer(instrumentationName).Start(ctx, name, oteltrace.WithAttributes(attrs...))
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// Shutdown flushes and stops every provider.
func (om *Manager) Shutdown(ctx context.Context) error {
	if om == nil {
		return nil
	}
	var firstErr error
	for i := len(om.shutdownFuncs) - 1; i >= 0; i-- {
		if err := om.shutdownFuncs[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	om.shutdownFuncs = nil
	return firstErr
}
