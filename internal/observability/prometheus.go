package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"resumescore/internal/config"
	apperrors "resumescore/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// SetupPrometheusExporter creates a metric reader backed by its own
// registry and the handler that serves that registry.
func SetupPrometheusExporter(cfg config.PrometheusConfig) (metric.Reader, http.Handler, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	return exporter, handler, nil
}

// PrometheusServer serves the scrape endpoint on a dedicated port.
type PrometheusServer struct {
	server *http.Server
	logger *apperrors.Logger
}

// StartPrometheusServer serves handler at cfg.Endpoint on cfg.Port in the
// background. It returns nil when handler is nil.
func StartPrometheusServer(handler http.Handler, cfg config.PrometheusConfig, logger *apperrors.Logger) *PrometheusServer {
	if handler == nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Endpoint, handler)

	ps := &PrometheusServer{
		server: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}

	if logger != nil {
		logger.Info("Starting Prometheus metrics server", "address", ps.server.Addr, "endpoint", cfg.Endpoint)
	}
	go func() {
		if err := ps.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && logger != nil {
			logger.LogError(err, "Prometheus server failed")
		}
	}()
	return ps
}

// Shutdown stops the metrics server.
func (ps *PrometheusServer) Shutdown(ctx context.Context) error {
	if ps == nil {
		return nil
	}
	return ps.server.Shutdown(ctx)
}
