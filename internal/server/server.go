// Package server exposes the rowgraph pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz         liveness and build version
//	POST   /v1/materialize  mapping + data (+ selection) → unpositioned graph
//	POST   /v1/layout       mapping + data (+ selection, layout) → positioned graph
//	DELETE /v1/layout       cancel the caller's in-flight layout
//	POST   /v1/render       graph + format → rendered artifact
//
// Layout requests are sequenced per client: a client identified by the
// X-Client-ID header has at most one layout in flight, and a newer request
// cancels the older one, which then answers 409 Conflict.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rowgraph/pkg/config"
	"github.com/matzehuels/rowgraph/pkg/layout"
	"github.com/matzehuels/rowgraph/pkg/pipeline"
)

// ClientIDHeader names the client whose layouts are sequenced together.
const ClientIDHeader = "X-Client-ID"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API. It is safe for concurrent use.
type Server struct {
	runner *pipeline.Runner
	cfg    config.Server
	// base is the [layout] section; request layout fields override it.
	base   layout.Options
	logger *log.Logger
	slots  layout.Slots
}

// New returns a server driving runner with layouts based on base. A nil
// logger discards output.
func New(runner *pipeline.Runner, cfg config.Server, base layout.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{runner: runner, cfg: cfg, base: base.WithDefaults(), logger: logger}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	if s.cfg.Timeout.Duration > 0 {
		r.Use(middleware.Timeout(s.cfg.Timeout.Duration))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/materialize", s.handleMaterialize)
		r.Post("/layout", s.handleLayout)
		r.Delete("/layout", s.handleCancelLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
