// Package catalogs holds the static collection of analytics products,
// reports and datasets. A Catalog is built once from a source document,
// validated (unique ids), and exposes the published subset used by search.
//
// Example usage:
//
//	cat, err := catalogs.Load("./analytics.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range cat.Published() {
//	    fmt.Println(r.ID, r.Title)
//	}
package catalogs

import (
	"strings"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
)

// Catalog is an immutable, ordered record collection.
type Catalog struct {
	records   []Record
	published []Record
	byID      map[string]int
	source    string
}

// New validates records and builds a catalog. Order is preserved.
func New(records []Record) (*Catalog, error) {
	c := &Catalog{
		records: make([]Record, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	for _, r := range records {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, errors.NewValidationError("id", r.Title, "record id cannot be empty")
		}
		if _, exists := c.byID[r.ID]; exists {
			return nil, errors.NewDuplicateError("record", r.ID)
		}
		c.byID[r.ID] = len(c.records)
		c.records = append(c.records, r)
		if r.IsPublished() {
			c.published = append(c.published, r)
		}
	}
	return c, nil
}

// Source returns the path or name the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// Len returns the number of records, published or not.
func (c *Catalog) Len() int { return len(c.records) }

// All returns every record in source order.
func (c *Catalog) All() []Record {
	return append([]Record(nil), c.records...)
}

// Published returns the published records in source order.
func (c *Catalog) Published() []Record {
	return append([]Record(nil), c.published...)
}

// Get returns a record by id.
func (c *Catalog) Get(id string) (Record, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Record{}, false
	}
	return c.records[i], true
}

// Find returns a published record by id, or a NotFoundError carrying
// close identifiers as suggestions.
func (c *Catalog) Find(id string) (Record, error) {
	if r, ok := c.Get(id); ok && r.IsPublished() {
		return r, nil
	}
	return Record{}, errors.NewNotFoundError("record", id, c.Suggest(id, constants.SuggestionLimit)...)
}

// Counts returns the number of records per kind in the given list.
func Counts(records []Record) map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, k := range Kinds {
		counts[k] = 0
	}
	for _, r := range records {
		counts[r.Kind]++
	}
	return counts
}
