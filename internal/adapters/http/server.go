// Package http hosts the health and metrics endpoints exposed during long
// sync runs.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot returns the current run status rendered by /healthz.
type Snapshot func() map[string]any

// NewHandler mounts the observability routes on a chi router.
func NewHandler(reg *prometheus.Registry, snapshot Snapshot) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := map[string]any{"status": "ok"}
		if snapshot != nil {
			for k, v := range snapshot() {
				status[k] = v
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}

// Server is a small lifecycle wrapper around http.Server: start in the
// background, shut down gracefully when the sync run ends.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
	errs   chan error
}

// NewServer creates a server on addr with the given handler.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		srv:    &http.Server{Addr: addr, Handler: handler},
		logger: logger,
		errs:   make(chan error, 1),
	}
}

// Start begins listening in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("metrics server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.errs <- err
		}
	}()
}

// Err reports a listener failure, if any.
func (s *Server) Err() error {
	select {
	case err := <-s.errs:
		return err
	default:
		return nil
	}
}

// Shutdown stops the server, giving in-flight requests a grace period.
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown did not complete, closing", "err", err)
		return s.srv.Close()
	}
	return nil
}
