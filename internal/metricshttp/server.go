// Package metricshttp serves internal/metrics' Prometheus registry over
// HTTP, implementing the same Start/Stop/Port auxiliary-server lifecycle as
// internal/introspect so both can be started and torn down identically by
// cmd/perceptia.
package metricshttp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darkelement/perceptia/internal/logger"
)

// Server serves GET /metrics for the given registry.
type Server struct {
	server       *http.Server
	port         int
	shutdownOnce sync.Once
}

// NewServer returns a Server bound to port, exposing registry at /metrics.
// A nil registry still serves a valid (empty) server, for a process that
// enables the metrics server before any instrumented package has called
// metrics.InitRegistry.
func NewServer(port int, registry *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		port: port,
	}
}

// Start serves metrics requests until ctx is cancelled, then shuts down
// gracefully. Returns nil on a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("metrics server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("metrics server failed: %w", err)
	}
}

// Stop gracefully shuts the server down. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("metrics server shutdown error: %w", err)
			logger.Error("metrics server shutdown error", logger.Err(err))
		} else {
			logger.Info("metrics server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.port
}
