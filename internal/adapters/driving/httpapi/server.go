// Package httpapi exposes the answer pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/ports/driving"
)

// Default server timeouts.
const (
	DefaultReadTimeout = 30 * time.Second
	// Document download, indexing and LLM calls all happen inside the
	// request, so the write timeout is generous.
	DefaultWriteTimeout = 5 * time.Minute
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Addr is the listen address (e.g., ":8000").
	Addr string

	// AuthToken is the expected bearer token. Empty disables the
	// protected endpoints entirely.
	AuthToken string
}

// Server serves the HTTP API.
type Server struct {
	answers driving.AnswerService
	admin   driving.AdminService
	token   string
	httpSrv *http.Server
}

// New creates a new HTTP server.
func New(cfg Config, answers driving.AnswerService, admin driving.AdminService) *Server {
	s := &Server{
		answers: answers,
		admin:   admin,
		token:   cfg.AuthToken,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /hackrx/run", s.requireAuth(s.handleRun))
	mux.HandleFunc("POST /api/v1/process-single", s.requireAuth(s.handleProcessSingle))
	// Stats is deliberately left unauthenticated for monitoring probes;
	// known hardening gap, revisit before multi-tenant deployments.
	mux.HandleFunc("GET /api/v1/stats", s.handleStats)
	mux.HandleFunc("GET /api/v1/report", s.handleReport)
	mux.HandleFunc("DELETE /api/v1/clear-index", s.requireAuth(s.handleClearIndex))

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  DefaultReadTimeout,
		WriteTimeout: DefaultWriteTimeout,
	}
	return s
}

// Handler returns the route handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpSrv.Addr, err)
	}
	if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
