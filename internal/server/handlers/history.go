package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/pkg/errors"
)

// AddHistoryRequest is the body of POST /history.
type AddHistoryRequest struct {
	Query string `json:"query"`
}

// HandleListHistory handles GET /api/v1/history.
// @Summary Search history
// @Description Saved searches, newest first.
// @Tags history
// @Produce json
// @Success 200 {object} response.Response{data=[]history.Entry}
// @Security ApiKeyAuth
// @Router /api/v1/history [get].
func (h *Handlers) HandleListHistory(w http.ResponseWriter, _ *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.History())
}

// HandleAddHistory handles POST /api/v1/history.
// @Summary Save a search
// @Tags history
// @Accept json
// @Produce json
// @Param body body AddHistoryRequest true "Query to save"
// @Success 201 {object} response.Response{data=history.Entry}
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/history [post].
func (h *Handlers) HandleAddHistory(w http.ResponseWriter, r *http.Request) {
	var req AddHistoryRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	e, err := c.AddHistory(r.Context(), req.Query)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, e)
}

// HandleRemoveHistory handles DELETE /api/v1/history/{index}.
// @Summary Remove a saved search
// @Tags history
// @Produce json
// @Param index path integer true "Position in the list, 0 is newest"
// @Success 200 {object} response.Response{data=history.Entry}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/history/{index} [delete].
func (h *Handlers) HandleRemoveHistory(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		h.fail(w, r, errors.NewValidationError("index", raw, "must be an integer"))
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	e, err := c.RemoveHistory(r.Context(), index)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, e)
}

// HandleClearHistory handles DELETE /api/v1/history.
// @Summary Clear search history
// @Tags history
// @Success 204
// @Security ApiKeyAuth
// @Router /api/v1/history [delete].
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	if err := c.ClearHistory(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}
