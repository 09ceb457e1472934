package pipeline

import (
	"github.com/agentstation/atlas/pkg/catalogs"
)

// OwnerLink points from a record to its owning product.
type OwnerLink struct {
	Name string `json:"name" yaml:"name"`
	Link string `json:"link" yaml:"link"`
}

// Item is a record annotated for display.
type Item struct {
	ID            string        `json:"id" yaml:"id"`
	Kind          catalogs.Kind `json:"kind" yaml:"kind"`
	Title         string        `json:"title" yaml:"title"`
	Description   string        `json:"description" yaml:"description"`
	RelatedOwner  *OwnerLink    `json:"relatedOwnerLink,omitempty" yaml:"relatedOwnerLink,omitempty"`
	IsNew         bool          `json:"isNew" yaml:"isNew"`
	Favorite      bool          `json:"favorite" yaml:"favorite"`
	LastPublished string        `json:"lastPublishedAt,omitempty" yaml:"lastPublishedAt,omitempty"`
}

// FavoriteChecker reports favorite flags. A nil checker marks nothing.
type FavoriteChecker interface {
	IsFavorite(id string) bool
}

// Annotate joins a record with its favorite flag.
func Annotate(r catalogs.Record, favs FavoriteChecker) Item {
	item := Item{
		ID:            r.ID,
		Kind:          r.Kind,
		Title:         r.Title,
		Description:   r.Description,
		LastPublished: r.LastPublished,
	}
	if r.Owner != "" {
		item.RelatedOwner = &OwnerLink{Name: r.Owner, Link: "#"}
	}
	if favs != nil {
		item.Favorite = favs.IsFavorite(r.ID)
	}
	return item
}

// AnnotateAll annotates records in order.
func AnnotateAll(records []catalogs.Record, favs FavoriteChecker) []Item {
	items := make([]Item, len(records))
	for i, r := range records {
		items[i] = Annotate(r, favs)
	}
	return items
}
