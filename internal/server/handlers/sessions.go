package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/atlas/internal/server/events"
	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/pkg/filter"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// SessionRequest creates or updates a session. Nil fields are unchanged.
type SessionRequest struct {
	Query *string     `json:"q,omitempty"`
	Tab   *filter.Tab `json:"tab,omitempty"`
	Page  *int        `json:"page,omitempty"`
}

// SessionState is a session snapshot.
type SessionState struct {
	ID           string          `json:"id"`
	Query        string          `json:"query"`
	Tab          filter.Tab      `json:"tab"`
	ChartLoading bool            `json:"chartLoading"`
	LastActive   time.Time       `json:"lastActive"`
	Result       pipeline.Result `json:"result"`
	Total        int             `json:"total"`
}

func stateOf(s *pipeline.Session) SessionState {
	res := s.Result()
	return SessionState{
		ID:           s.ID(),
		Query:        s.Query(),
		Tab:          s.Tab(),
		ChartLoading: s.ChartLoading(),
		LastActive:   s.LastActive(),
		Result:       res,
		Total:        len(res.Filtered),
	}
}

// HandleCreateSession handles POST /api/v1/sessions.
// @Summary Create a result session
// @Description Results of a session are also pushed as results.changed events tagged with its id.
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body SessionRequest false "Initial query, tab and page"
// @Success 201 {object} response.Response{data=SessionState}
// @Security ApiKeyAuth
// @Router /api/v1/sessions [post].
func (h *Handlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}

	var opts []pipeline.SessionOption
	if req.Query != nil {
		opts = append(opts, pipeline.WithInitialQuery(*req.Query))
	}
	if req.Tab != nil {
		opts = append(opts, pipeline.WithInitialTab(*req.Tab))
	}
	s := c.NewSession(opts...)
	if req.Page != nil {
		s.SetPage(*req.Page)
	}
	if err := h.sessions.Add(s); err != nil {
		h.fail(w, r, err)
		return
	}
	h.broker.PublishSession(events.SessionCreated, s.ID(), map[string]any{"id": s.ID()})
	response.Created(w, stateOf(s))
}

// HandleGetSession handles GET /api/v1/sessions/{id}.
// @Summary Session snapshot
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=SessionState}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id} [get].
func (h *Handlers) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, stateOf(s))
}

// HandleUpdateSession handles PATCH /api/v1/sessions/{id}. Query and tab
// changes reset the page to 1 before an explicit page is applied.
// @Summary Change query, tab or page
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param body body SessionRequest true "Fields to change"
// @Success 200 {object} response.Response{data=SessionState}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id} [patch].
func (h *Handlers) HandleUpdateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req SessionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Query != nil {
		s.SetQuery(*req.Query)
	}
	if req.Tab != nil {
		s.SetTab(*req.Tab)
	}
	if req.Page != nil {
		s.SetPage(*req.Page)
	}
	response.OK(w, stateOf(s))
}

// HandleDeleteSession handles DELETE /api/v1/sessions/{id}.
// @Summary Close a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id} [delete].
func (h *Handlers) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// HandleSessionToggleFavorite handles POST /api/v1/sessions/{id}/favorites/{record}/toggle.
// The session returns to page 1 with recomputed results; other live sessions
// are refreshed as well.
// @Summary Toggle a favorite from a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param record path string true "Record ID"
// @Success 200 {object} response.Response{data=SessionState}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/sessions/{id}/favorites/{record}/toggle [post].
func (h *Handlers) HandleSessionToggleFavorite(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if _, _, err := s.ToggleFavorite(r.Context(), r.PathValue("record")); err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, stateOf(s))
}
