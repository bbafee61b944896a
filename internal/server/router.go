package server

import (
	"net/http"

	"github.com/agentstation/hangar/internal/server/handlers"
	"github.com/agentstation/hangar/internal/server/middleware"
	"github.com/agentstation/hangar/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(s.app, s.cache, s.logger, s.startTime)
	s.registerRoutes(mux, h)

	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	// Favicon handler (return 204 No Content to avoid 404 logs)
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	if prefix != "" {
		mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	}
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Reference data
	mux.HandleFunc("GET "+prefix+"/reference", h.HandleReference)
	mux.HandleFunc("GET "+prefix+"/items", h.HandleListItems)
	mux.HandleFunc("GET "+prefix+"/items/{kind}/{xws}", h.HandleGetItem)
	mux.HandleFunc("GET "+prefix+"/bundles", h.HandleListBundles)
	mux.HandleFunc("GET "+prefix+"/bundles/{sku}", h.HandleGetBundle)
	mux.HandleFunc("GET "+prefix+"/aliases", h.HandleListAliases)

	// Resolution and aggregation
	mux.HandleFunc("POST "+prefix+"/resolve", h.HandleResolve)
	mux.HandleFunc("POST "+prefix+"/inventory", h.HandleInventory)

	mux.HandleFunc("GET "+prefix+"/stats", h.HandleStats)

	// OpenAPI document endpoints
	mux.HandleFunc("GET "+prefix+"/openapi.json", h.HandleOpenAPIJSON)
	mux.HandleFunc("GET "+prefix+"/openapi.yaml", h.HandleOpenAPIYAML)

	// Everything else gets the standard envelope instead of the mux's plain text.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Not found", "No route for "+r.Method+" "+r.URL.Path)
	})
}

// applyMiddleware wraps handler with middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	chain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter))
	}

	chain = append(chain, middleware.MaxBodySize(cfg.MaxBodySize))

	return middleware.Chain(chain...)(handler)
}
