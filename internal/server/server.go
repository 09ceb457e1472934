// Package server exposes an atlas client over HTTP: a JSON REST API plus
// WebSocket and SSE streams of client events.
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/server/cache"
	"github.com/agentstation/atlas/internal/server/events"
	"github.com/agentstation/atlas/internal/server/events/adapters"
	"github.com/agentstation/atlas/internal/server/middleware"
	"github.com/agentstation/atlas/internal/server/sessions"
	"github.com/agentstation/atlas/internal/server/sse"
	ws "github.com/agentstation/atlas/internal/server/websocket"
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	app            application.Application
	cache          *cache.Cache
	sessions       *sessions.Registry
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	rateLimiter    *middleware.RateLimiter
	logger         *zerolog.Logger
	config         Config

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started sync.Once
}

// New creates a server and connects the client hooks to the event broker.
func New(app application.Application, cfg Config) (*Server, error) {
	logger := app.Logger()

	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		app:            app,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		sessions:       sessions.New(cfg.SessionTTL, logger),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		config:         cfg,
		ctx:            ctx,
		cancel:         cancel,
	}
	if cfg.RateLimit > 0 {
		s.rateLimiter = middleware.NewRateLimiter(cfg.RateLimit, logger)
	}

	if err := s.connectHooks(); err != nil {
		cancel()
		return nil, err
	}
	s.sessions.OnClose(func(id string) {
		s.broker.PublishSession(events.SessionClosed, id, map[string]any{"id": id})
	})

	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks publishes client events to the broker and keeps the
// response cache and sessions consistent with favorites and the catalog.
func (s *Server) connectHooks() error {
	c, err := s.app.Client()
	if err != nil {
		return err
	}

	c.OnResultsChanged(func(ev pipeline.ResultsChanged) {
		s.broker.PublishSession(events.ResultsChanged, ev.SessionID, ev)
	})

	// every live session annotates items with the current flags
	c.OnFavoriteToggled(func(id string, favorite bool) {
		s.cache.Clear()
		s.sessions.RefreshAll(pipeline.ReasonFavorite)
		s.broker.Publish(events.FavoriteToggled, map[string]any{"id": id, "favorite": favorite})
	})

	c.OnIndexReady(func() {
		n := s.sessions.RefreshAll(pipeline.ReasonIndexReady)
		s.logger.Debug().Int("sessions", n).Msg("Sessions refreshed after indexing")
	})

	c.OnHistoryChanged(func(entries []history.Entry) {
		s.broker.Publish(events.HistoryChanged, map[string]any{"entries": entries})
	})

	c.OnCatalogReloaded(func(cat *catalogs.Catalog) {
		s.cache.Clear()
		n := s.sessions.RefreshAll(pipeline.ReasonReload)
		s.broker.Publish(events.CatalogReloaded, map[string]any{
			"source":  cat.Source(),
			"records": cat.Len(),
		})
		s.logger.Info().Int("sessions", n).Msg("Sessions refreshed after reload")
	})

	s.logger.Debug().Msg("Client hooks connected to event broker")
	return nil
}

// Start runs the broker, transports and rate limiter cleanup. It is
// idempotent.
func (s *Server) Start() {
	s.started.Do(func() {
		run := func(fn func(context.Context)) {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				fn(s.ctx)
			}()
		}
		run(s.broker.Run)
		run(s.wsHub.Run)
		run(s.sseBroadcaster.Run)
		if s.rateLimiter != nil {
			run(s.rateLimiter.Run)
		}
		s.logger.Debug().Msg("Background services started")
	})
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Addr returns host:port from the config.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Run serves HTTP on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.Start()
	srv := &http.Server{
		Addr:         s.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Str("prefix", s.config.PathPrefix).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Streams never finish on their own; stop them before draining.
	serr := s.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return serr
}

// Shutdown stops background services and closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	s.sessions.Close()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the response cache.
func (s *Server) Cache() *cache.Cache { return s.cache }

// Sessions returns the session registry.
func (s *Server) Sessions() *sessions.Registry { return s.sessions }

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker { return s.broker }
