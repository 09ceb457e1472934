package catalogs

import (
	"github.com/sahilm/fuzzy"
)

// idSource adapts published record ids to fuzzy.Source.
type idSource []Record

func (s idSource) String(i int) string { return s[i].ID }
func (s idSource) Len() int            { return len(s) }

// Suggest returns up to n published ids that fuzzily resemble id, best first.
func (c *Catalog) Suggest(id string, n int) []string {
	if id == "" || n <= 0 || len(c.published) == 0 {
		return nil
	}
	matches := fuzzy.FindFrom(id, idSource(c.published))
	out := make([]string, 0, min(n, len(matches)))
	for _, m := range matches {
		if len(out) == n {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
