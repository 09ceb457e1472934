package atlas

import (
	"context"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/favorites"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pagination"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// Favorites reads and toggles favorites.
type Favorites interface {
	// IsFavorite reports whether id is currently a favorite.
	IsFavorite(id string) bool

	// ToggleFavorite flips and persists the flag for id, returning the new value.
	ToggleFavorite(ctx context.Context, id string) (bool, error)

	// FavoritesPage returns one page of favorited published records in
	// catalog order. Out-of-range pages are clamped.
	FavoritesPage(page int) pagination.Page[pipeline.Item]

	// RecentFavorites returns up to limit favorited published records,
	// most recently favorited first.
	RecentFavorites(limit int) []pipeline.Item
}

// IsFavorite reports whether id is currently a favorite.
func (c *client) IsFavorite(id string) bool {
	return c.favorites.IsFavorite(id)
}

// ToggleFavorite flips and persists the flag for id. Any id can be toggled;
// the catalog is not consulted.
func (c *client) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	value, err := c.favorites.Toggle(ctx, id)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("record_id", id).Msg("Favorite toggle failed")
		return value, err
	}
	logging.FromContext(ctx).Debug().Str("record_id", id).Bool("favorite", value).Msg("Favorite toggled")
	c.hooks.favoriteToggled(id, value)
	return value, nil
}

// FavoritesPage returns one page of favorited published records.
func (c *client) FavoritesPage(page int) pagination.Page[pipeline.Item] {
	return pipeline.FavoritesPage(c.Published(), c.favorites, page, c.options.favoritesPageSize)
}

// RecentFavorites returns up to limit favorited published records, newest first.
func (c *client) RecentFavorites(limit int) []pipeline.Item {
	cat := c.Catalog()
	lookup := func(id string) (catalogs.Record, bool) { return cat.Get(id) }
	return pipeline.RecentFavorites(c.favorites.List(0, favorites.NewestFirst), lookup, limit)
}
