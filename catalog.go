package atlas

import (
	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// Catalog provides read access to the loaded records.
type Catalog interface {
	// Catalog returns the current catalog. Catalogs are immutable; a reload
	// swaps in a new one.
	Catalog() *catalogs.Catalog

	// Source names where the catalog came from: a file path or "embedded".
	Source() string

	// Record returns the details of a published record. Unknown ids yield
	// a NotFoundError with "did you mean" suggestions.
	Record(id string) (Details, error)
}

// Details is the record drawer: the annotated item plus fields the result
// cards do not show.
type Details struct {
	pipeline.Item
	Owner  string `json:"owner,omitempty" yaml:"owner,omitempty"`
	Status string `json:"publishedStatus" yaml:"publishedStatus"`
}

// Catalog returns the current catalog.
func (c *client) Catalog() *catalogs.Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}

// Source returns the catalog source.
func (c *client) Source() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.source
}

// Record returns the details of a published record.
func (c *client) Record(id string) (Details, error) {
	r, err := c.Catalog().Find(id)
	if err != nil {
		return Details{}, err
	}
	return Details{
		Item:   pipeline.Annotate(r, c.favorites),
		Owner:  r.Owner,
		Status: r.Status,
	}, nil
}
