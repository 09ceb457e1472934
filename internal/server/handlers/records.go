package handlers

import (
	"net/http"
	"strconv"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/internal/server/cache"
	"github.com/agentstation/atlas/internal/server/filter"
	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// RecordsPage is the body of GET /records.
type RecordsPage struct {
	pipeline.Result
	// Total is the number of results across all pages.
	Total int `json:"total"`
}

// HandleListRecords handles GET /api/v1/records.
// @Summary Search records
// @Description Ranked search with tab filter and pagination. An empty q lists published records in catalog order.
// @Tags records
// @Produce json
// @Param q query string false "Search text"
// @Param tab query string false "all, products, reports or datasets"
// @Param page query integer false "Page number, clamped to the last page"
// @Param page_size query integer false "Page size (1-100)"
// @Success 200 {object} response.Response{data=RecordsPage}
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/records [get].
func (h *Handlers) HandleListRecords(w http.ResponseWriter, r *http.Request) {
	q, err := filter.ParseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}

	key := cache.Key("records", q.Text, q.Tab.String(), strconv.Itoa(q.Page), strconv.Itoa(q.PageSize))
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}

	res := c.Search(r.Context(), q)
	page := RecordsPage{Result: res, Total: len(res.Filtered)}
	if !res.Loading {
		h.cache.Set(key, page)
	}
	response.OK(w, page)
}

// HandleGetRecord handles GET /api/v1/records/{id}.
// @Summary Record details
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response{data=atlas.Details}
// @Failure 404 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/records/{id} [get].
func (h *Handlers) HandleGetRecord(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	d, err := c.Record(r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, d)
}

// HandleSummary handles GET /api/v1/summary.
// @Summary Result summary
// @Description Counts per kind and the first dataset for the results of q across all tabs.
// @Tags records
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {object} response.Response{data=pipeline.Summary}
// @Security ApiKeyAuth
// @Router /api/v1/summary [get].
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	query := r.URL.Query().Get("q")
	key := cache.Key("summary", query)
	if cached, found := h.cache.Get(key); found {
		response.OK(w, cached)
		return
	}
	sum := c.Summary(r.Context(), query)
	if !sum.Loading {
		h.cache.Set(key, sum)
	}
	response.OK(w, sum)
}

// HandleSuggestions handles GET /api/v1/suggestions.
// @Summary Search box suggestions
// @Description Matching history entries followed by every matching record title, best first.
// @Tags search
// @Produce json
// @Param q query string false "Typed text"
// @Success 200 {object} response.Response{data=[]pipeline.Suggestion}
// @Security ApiKeyAuth
// @Router /api/v1/suggestions [get].
func (h *Handlers) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.Suggest(r.URL.Query().Get("q")))
}

// HandlePrompts handles GET /api/v1/prompts.
// @Summary Prompt suggestions
// @Description A random sample of published records.
// @Tags search
// @Produce json
// @Param limit query integer false "Number of prompts (1-10)"
// @Success 200 {object} response.Response{data=[]pipeline.Prompt}
// @Security ApiKeyAuth
// @Router /api/v1/prompts [get].
func (h *Handlers) HandlePrompts(w http.ResponseWriter, r *http.Request) {
	limit, err := filter.ParseLimit(r, "limit", constants.PromptLimit, constants.PromptLimit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.PromptSuggestions(limit))
}

// HandleShortcuts handles GET /api/v1/shortcuts.
// @Summary Shortcut list
// @Tags search
// @Produce json
// @Param kind query string false "recommended or favorites"
// @Success 200 {object} response.Response{data=[]pipeline.Item}
// @Failure 400 {object} response.Response{error=response.Error}
// @Security ApiKeyAuth
// @Router /api/v1/shortcuts [get].
func (h *Handlers) HandleShortcuts(w http.ResponseWriter, r *http.Request) {
	kind, err := atlas.ParseShortcutKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.Shortcuts(kind))
}
