package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"resumescore/internal/observability"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Start listens on the configured address and serves until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.Host, s.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	tlsConfig, err := buildTLSConfig(s.TLSConfig)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to configure TLS: %w", err)
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.ReadTimeout,
		WriteTimeout:      s.WriteTimeout,
		IdleTimeout:       s.IdleTimeout,
	}

	var metricsServer *observability.PrometheusServer
	if !s.servesPrometheusInline() {
		metricsServer = observability.StartPrometheusServer(s.Obs.PrometheusHandler(),
			s.AppConfig.Observability.Prometheus, s.Logger)
	}

	s.displayServerInfo(ln.Addr().String(), tlsConfig != nil)

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("Starting HTTP server",
			"address", ln.Addr().String(),
			"tls_enabled", tlsConfig != nil)

		var err error
		if tlsConfig != nil {
			// certificates are already loaded into TLSConfig
			err = httpServer.ServeTLS(ln, "", "")
		} else {
			err = httpServer.Serve(ln)
		}
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		s.cleanup(metricsServer)
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.Logger.Info("Shutdown requested, starting graceful shutdown")
		return s.performGracefulShutdown(httpServer, metricsServer)
	}
}

// performGracefulShutdown drains in-flight requests within shutdownTimeout.
func (s *Server) performGracefulShutdown(server *http.Server, metricsServer *observability.PrometheusServer) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	defer s.cleanup(metricsServer)

	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}
	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

func (s *Server) cleanup(metricsServer *observability.PrometheusServer) {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Failed to stop metrics server")
	}
}
