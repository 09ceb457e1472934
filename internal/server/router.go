package server

import (
	"net/http"

	"github.com/agentstation/atlas/internal/server/handlers"
	"github.com/agentstation/atlas/internal/server/middleware"
)

func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()
	h := handlers.New(s.app, s.cache, s.sessions, s.broker, s.wsHub, s.sseBroadcaster, s.logger)
	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	p := s.config.PathPrefix

	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Health, public.
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+p+"/ready", h.HandleReady)

	// Records and search.
	mux.HandleFunc("GET "+p+"/records", h.HandleListRecords)
	mux.HandleFunc("GET "+p+"/records/{id}", h.HandleGetRecord)
	mux.HandleFunc("GET "+p+"/summary", h.HandleSummary)
	mux.HandleFunc("GET "+p+"/suggestions", h.HandleSuggestions)
	mux.HandleFunc("GET "+p+"/prompts", h.HandlePrompts)
	mux.HandleFunc("GET "+p+"/shortcuts", h.HandleShortcuts)

	// Favorites.
	mux.HandleFunc("GET "+p+"/favorites", h.HandleListFavorites)
	mux.HandleFunc("GET "+p+"/favorites/recent", h.HandleRecentFavorites)
	mux.HandleFunc("POST "+p+"/favorites/{id}/toggle", h.HandleToggleFavorite)

	// History.
	mux.HandleFunc("GET "+p+"/history", h.HandleListHistory)
	mux.HandleFunc("POST "+p+"/history", h.HandleAddHistory)
	mux.HandleFunc("DELETE "+p+"/history", h.HandleClearHistory)
	mux.HandleFunc("DELETE "+p+"/history/{index}", h.HandleRemoveHistory)

	// Sessions.
	mux.HandleFunc("POST "+p+"/sessions", h.HandleCreateSession)
	mux.HandleFunc("GET "+p+"/sessions/{id}", h.HandleGetSession)
	mux.HandleFunc("PATCH "+p+"/sessions/{id}", h.HandleUpdateSession)
	mux.HandleFunc("DELETE "+p+"/sessions/{id}", h.HandleDeleteSession)
	mux.HandleFunc("POST "+p+"/sessions/{id}/favorites/{record}/toggle", h.HandleSessionToggleFavorite)

	// Admin.
	mux.HandleFunc("POST "+p+"/reload", h.HandleReload)
	mux.HandleFunc("GET "+p+"/stats", h.HandleStats)

	// Realtime.
	mux.HandleFunc("GET "+p+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+p+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps handler; request id, recovery and logging are outermost.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config
	chain := []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.Recovery(s.logger),
		middleware.Logger(s.logger),
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		chain = append(chain, middleware.CORS(corsConfig))
	}

	if cfg.AuthEnabled {
		authConfig := middleware.DefaultAuthConfig(cfg.PathPrefix)
		authConfig.Enabled = true
		if cfg.AuthHeader != "" {
			authConfig.HeaderName = cfg.AuthHeader
		}
		chain = append(chain, middleware.Auth(authConfig, s.logger))
	}

	if s.rateLimiter != nil {
		chain = append(chain, middleware.RateLimit(s.rateLimiter))
	}

	return middleware.Chain(chain...)(handler)
}
