// Package handlers implements the atlas REST API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/server/cache"
	"github.com/agentstation/atlas/internal/server/events"
	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/internal/server/sessions"
	"github.com/agentstation/atlas/internal/server/sse"
	ws "github.com/agentstation/atlas/internal/server/websocket"
	"github.com/agentstation/atlas/pkg/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 64 << 10

// Handlers holds what the endpoints share.
type Handlers struct {
	app            application.Application
	cache          *cache.Cache
	sessions       *sessions.Registry
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	logger         *zerolog.Logger
	startTime      time.Time
}

// New creates the handler set.
func New(
	app application.Application,
	cache *cache.Cache,
	sessions *sessions.Registry,
	broker *events.Broker,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		app:            app,
		cache:          cache,
		sessions:       sessions,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		logger:         logger,
		startTime:      time.Now(),
	}
}

// client returns the atlas client or writes 503.
func (h *Handlers) client(w http.ResponseWriter) (atlas.Client, bool) {
	c, err := h.app.Client()
	if err != nil {
		h.logger.Error().Err(err).Msg("Atlas client unavailable")
		response.ServiceUnavailable(w, "catalog not available")
		return nil, false
	}
	return c, true
}

// fail logs unexpected errors and writes the mapped response.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if !errors.IsNotFound(err) && !errors.IsValidationError(err) {
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	response.ErrorFromType(w, err)
}

// decode reads a JSON body into v. An empty body leaves v unchanged.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewValidationError("body", nil, err.Error())
	}
	return nil
}
