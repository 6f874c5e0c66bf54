// Package server exposes exhibitnet layouts over HTTP.
//
// The server loads both tables once at startup and recomputes a layout for
// every request. Clients own the view transform and send it with each
// request as the k, x and y query parameters; nothing about a previous
// request is remembered.
//
// Routes:
//
//	GET /healthz          liveness probe
//	GET /api/years        per-year record counts
//	GET /api/layout       layout payload as JSON
//	GET /api/layout.svg   rendered SVG (artifact-cached)
//	GET /metrics          Prometheus metrics
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/exhibitnet/pkg/membership"
	"github.com/matzehuels/exhibitnet/pkg/pipeline"
)

// Timeouts for the underlying http.Server.
const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Server serves layouts for one loaded dataset.
type Server struct {
	runner   *pipeline.Runner
	data     *membership.Dataset
	base     pipeline.Options
	logger   *log.Logger
	gatherer prometheus.Gatherer
	router   chi.Router
}

// New creates a server. base supplies every option a request does not
// override. gatherer backs /metrics; nil uses the default registry.
func New(runner *pipeline.Runner, data *membership.Dataset, base pipeline.Options, gatherer prometheus.Gatherer) *Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	base.SetLayoutDefaults()
	base.SetRenderDefaults()

	s := &Server{
		runner:   runner,
		data:     data,
		base:     base,
		logger:   runner.Logger,
		gatherer: gatherer,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/years", s.handleYears)
		r.Get("/layout", s.handleLayout)
		r.Get("/layout.svg", s.handleLayoutSVG)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
