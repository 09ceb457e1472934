package handlers

import (
	"net/http"

	"github.com/agentstation/atlas/internal/server/filter"
	"github.com/agentstation/atlas/internal/server/response"
	"github.com/agentstation/atlas/pkg/constants"
)

// FavoriteState is the body of a toggle response.
type FavoriteState struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// HandleListFavorites handles GET /api/v1/favorites.
// @Summary Favorites page
// @Description Favorited published records in catalog order.
// @Tags favorites
// @Produce json
// @Param page query integer false "Page number, clamped to the last page"
// @Success 200 {object} response.Response{data=object}
// @Security ApiKeyAuth
// @Router /api/v1/favorites [get].
func (h *Handlers) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	page, err := filter.ParsePage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.FavoritesPage(page))
}

// HandleRecentFavorites handles GET /api/v1/favorites/recent.
// @Summary Recently favorited records
// @Tags favorites
// @Produce json
// @Param limit query integer false "Maximum records (default 7)"
// @Success 200 {object} response.Response{data=[]pipeline.Item}
// @Security ApiKeyAuth
// @Router /api/v1/favorites/recent [get].
func (h *Handlers) HandleRecentFavorites(w http.ResponseWriter, r *http.Request) {
	limit, err := filter.ParseLimit(r, "limit", constants.ShortcutLimit, constants.MaxPageSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, ok := h.client(w)
	if !ok {
		return
	}
	response.OK(w, c.RecentFavorites(limit))
}

// HandleToggleFavorite handles POST /api/v1/favorites/{id}/toggle.
// @Summary Toggle a favorite
// @Description Flips and persists the favorite flag. Unknown ids are accepted.
// @Tags favorites
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Response{data=FavoriteState}
// @Security ApiKeyAuth
// @Router /api/v1/favorites/{id}/toggle [post].
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	c, ok := h.client(w)
	if !ok {
		return
	}
	id := r.PathValue("id")
	value, err := c.ToggleFavorite(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.OK(w, FavoriteState{ID: id, Favorite: value})
}
