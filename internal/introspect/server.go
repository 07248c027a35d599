// Package introspect exposes a read-only HTTP server for inspecting a
// running compositor: every registered surface, the current frame tree, and
// the surface recency history. It is one of the two optional auxiliary
// servers (the other is internal/metricshttp) a perceptia process may start
// alongside its Dispatcher-driven core.
package introspect

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/darkelement/perceptia/internal/exhibitor"
	"github.com/darkelement/perceptia/internal/logger"
	"github.com/darkelement/perceptia/internal/qualia"
)

// Server serves the introspection endpoints over HTTP. It implements the
// Start(ctx)/Stop(ctx)/Port() contract every auxiliary server in this
// process satisfies.
type Server struct {
	server       *http.Server
	port         int
	shutdownOnce sync.Once
}

// NewServer returns a Server bound to port, reading from coordinator and
// compositor. The server is created stopped; call Start to begin serving.
func NewServer(port int, coordinator *qualia.Coordinator, compositor *exhibitor.Compositor) *Server {
	h := newHandler(coordinator, compositor)
	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      newRouter(h),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		port: port,
	}
}

// Start serves introspection requests until ctx is cancelled, then shuts
// down gracefully. Returns nil on a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logger.Info("introspection server listening", "port", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			select {
			case errChan <- err:
			default:
			}
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("introspection server shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("introspection server failed: %w", err)
	}
}

// Stop gracefully shuts the server down. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("introspection server shutdown error: %w", err)
			logger.Error("introspection server shutdown error", logger.Err(err))
		} else {
			logger.Info("introspection server stopped gracefully")
		}
	})
	return shutdownErr
}

// Port returns the TCP port the server listens on.
func (s *Server) Port() int {
	return s.port
}
