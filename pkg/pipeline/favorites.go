package pipeline

import (
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/pagination"
)

// FavoritesPage returns the published records currently favorited, in
// catalog order, paginated. Out-of-range pages are clamped.
func FavoritesPage(published []catalogs.Record, favs FavoriteChecker, page, size int) pagination.Page[Item] {
	if size <= 0 {
		size = constants.FavoritesPageSize
	}
	var items []Item
	if favs != nil {
		for _, r := range published {
			if favs.IsFavorite(r.ID) {
				items = append(items, Annotate(r, favs))
			}
		}
	}
	if items == nil {
		items = []Item{}
	}
	return pagination.Paginate(items, size, pagination.Clamp(page, len(items), size))
}

// RecentFavorites resolves favorite ids (most recent first) to published
// items, skipping ids that are no longer published.
func RecentFavorites(ids []string, lookup func(id string) (catalogs.Record, bool), limit int) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if limit > 0 && len(out) == limit {
			break
		}
		r, ok := lookup(id)
		if !ok || !r.IsPublished() {
			continue
		}
		item := Annotate(r, nil)
		item.Favorite = true
		out = append(out, item)
	}
	return out
}
