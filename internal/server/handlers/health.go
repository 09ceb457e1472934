package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/pkg/catalogs"
)

// HandleHealth handles GET /api/v1/health.
// @Summary Health check
// @Description Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Router /api/v1/health [get].
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "atlas-api",
		"version": h.app.Version(),
	})
}

// HandleReady handles GET /api/v1/ready. It reports 503 until the search
// index has been built.
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 503 {object} response.Response{error=response.Error}
// @Router /api/v1/ready [get].
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	if !c.Index().Ready() {
		response.ServiceUnavailable(w, "search index is loading")
		return
	}
	response.OK(w, map[string]any{
		"status":  "ready",
		"source":  c.Source(),
		"records": c.Catalog().Len(),
	})
}

// HandleStats handles GET /api/v1/stats.
// @Summary Server and catalog statistics
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/stats [get].
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	cat := c.Catalog()
	response.OK(w, map[string]any{
		"catalog": map[string]any{
			"source":    c.Source(),
			"records":   cat.Len(),
			"published": len(cat.Published()),
			"counts":    catalogs.Counts(cat.Published()),
		},
		"favorites":         c.FavoritesPage(1).TotalItems,
		"history":           len(c.History()),
		"sessions":          h.sessions.Len(),
		"cache":             h.cache.GetStats(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
		"uptime_seconds":    int(time.Since(h.startTime).Seconds()),
	})
}
