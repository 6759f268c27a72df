package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/flashdeck/internal/auth"
)

// Server wraps the HTTP server and its routed handler.
type Server struct {
	handler http.Handler
	server  *http.Server
}

// NewServer wires handlers and auth into a routed server.
func NewServer(h *Handlers, authManager *auth.Manager) *Server {
	return &Server{handler: SetupRoutes(h, authManager)}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Generation requests wait on the provider; the write timeout has
		// to outlast the provider client's own 60s timeout.
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
