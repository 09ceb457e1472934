package handlers

import (
	"net/http"

	"github.com/agentstation/atlas/internal/server/response"
)

// HandleReload handles POST /api/v1/reload. A failed reload keeps the
// current catalog; a client without a catalog file answers 409.
// @Summary Reload the catalog file
// @Tags admin
// @Produce json
// @Success 200 {object} response.Response{data=object}
// @Failure 409 {object} response.Response{error=response.Error}
// @Failure 500 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/reload [post].
func (h *Handlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	if err := c.Reload(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, map[string]any{
		"status":  "reloaded",
		"source":  c.Source(),
		"records": c.Catalog().Len(),
	})
}
