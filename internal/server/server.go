// Package server provides the HTTP API for hangar: reference data lookup,
// single-name resolution and inventory aggregation over posted collections.
//
// Aggregation results are cached by request body so repeated uploads of the
// same collection are served without recomputation.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/hangar/cmd/application"
	"github.com/agentstation/hangar/internal/server/cache"
	"github.com/agentstation/hangar/internal/server/middleware"
	"github.com/agentstation/hangar/pkg/constants"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app         application.Application
	cache       *cache.Cache
	rateLimiter *middleware.RateLimiter
	logger      *zerolog.Logger
	config      Config
	startTime   time.Time
}

// New creates a server instance. Reference data is loaded up front so a
// broken data directory fails here rather than on the first request.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = constants.CacheTTL
	}
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = constants.MaxRequestBodySize
	}

	data, err := app.Reference()
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("reference", data.Version.String()).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Creating server instance")

	s := &Server{
		app:       app,
		cache:     cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then drains in-flight requests within constants.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", ln.Addr().String()).
			Str("prefix", s.config.PathPrefix).
			Msg("HTTP server listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		s.Shutdown()
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(shutdownCtx)
		s.Shutdown()
		if err != nil {
			return err
		}
		s.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

// Shutdown stops background work owned by the server.
func (s *Server) Shutdown() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.cache.Clear()
}

// Cache returns the server's response cache.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
