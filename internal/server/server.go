// Package server exposes the codec over HTTP.
//
// Routes:
//
//	GET  /healthz      liveness probe
//	POST /v1/encode    JSON dataset in, TSLN document out
//	POST /v1/decode    TSLN document in, JSON dataset out
//	POST /v1/analyze   JSON dataset in, field profiles and strategies out
//	POST /v1/compare   JSON dataset in, format comparison out
//
// The encode and compare routes accept diff=false and repeat=false query
// parameters to disable a capability for one request.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arloliu/tsln/internal/config"
	"github.com/arloliu/tsln/metrics"
)

const shutdownTimeout = 10 * time.Second

// Server serves the codec routes on a chi router.
type Server struct {
	Router *chi.Mux
	Addr   string

	cfg         *config.Config
	metricsOpts []metrics.Option
	cache       *lru.Cache[uint64, cachedResponse]
	logger      *slog.Logger
}

// New builds a Server from cfg. It fails when the metrics settings are invalid.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	metricsOpts, err := cfg.MetricsOptions()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Router:      chi.NewRouter(),
		Addr:        cfg.Server.Addr,
		cfg:         cfg,
		metricsOpts: metricsOpts,
		logger:      logger,
	}

	if cfg.Server.CacheSize > 0 {
		s.cache, err = lru.New[uint64, cachedResponse](cfg.Server.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create response cache: %w", err)
		}
	}

	s.Router.Use(RequestIDMiddleware)
	s.Router.Use(LoggingMiddleware(logger))
	if cfg.Server.TimeoutSeconds > 0 {
		s.Router.Use(TimeoutMiddleware(time.Duration(cfg.Server.TimeoutSeconds) * time.Second))
	}
	s.Router.Use(middleware.Recoverer)

	s.Router.Get("/healthz", s.handleHealth)
	s.Router.Route("/v1", func(r chi.Router) {
		r.Post("/encode", s.handleEncode)
		r.Post("/decode", s.handleDecode)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/compare", s.handleCompare)
	})

	return s, nil
}

// ServeHTTP dispatches r through the router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", slog.String("addr", s.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
