// Package pipeline composes search, tab filtering, favorite annotation and
// pagination into result pages.
//
// Compute is a pure function of its input. Session wraps it with the
// per-user state of a results screen (query, tab, page) and notifies
// observers whenever the filtered result list changes.
package pipeline

import (
	"strings"

	"github.com/agentstation/atlas/pkg/catalogs"
	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/filter"
	"github.com/agentstation/atlas/pkg/pagination"
	"github.com/agentstation/atlas/pkg/search"
)

// Input is everything a result page is derived from.
type Input struct {
	// Published is the published subset in catalog order.
	Published []catalogs.Record
	// Index answers non-empty queries. A nil or not-ready index is treated
	// as unavailable.
	Index     *search.Index
	Favorites FavoriteChecker
	Query     string
	Tab       filter.Tab
	Page      int
	PageSize  int
}

// Result is a computed result page.
type Result struct {
	Query string     `json:"query" yaml:"query"`
	Tab   filter.Tab `json:"tab" yaml:"tab"`
	// Items is the current page.
	Items []Item `json:"items" yaml:"items"`
	// Filtered is the full tab-filtered list before pagination.
	Filtered []Item `json:"-" yaml:"-"`
	// Matches is the search result before tab filtering.
	Matches    []Item          `json:"-" yaml:"-"`
	Pagination pagination.Info `json:"pagination" yaml:"pagination"`
	// Searching is true when the list is a ranked search result.
	Searching bool `json:"searching" yaml:"searching"`
	// Loading is true when a query could not be run because the index is
	// not ready; Items then come from the unfiltered published list.
	Loading bool `json:"loading" yaml:"loading"`
}

// Empty reports whether there is nothing to show ("no results" state).
func (r Result) Empty() bool {
	return len(r.Filtered) == 0
}

// Compute derives a result page. Out-of-range pages are clamped to
// [1, TotalPages]; the page actually shown is reported in Pagination.
func Compute(in Input) Result {
	size := in.PageSize
	if size <= 0 {
		size = constants.DefaultPageSize
	}

	res := Result{Query: in.Query, Tab: in.Tab}

	var matches []catalogs.Record
	switch {
	case strings.TrimSpace(in.Query) == "":
		matches = in.Published
	case !in.Index.Ready():
		matches = in.Published
		res.Loading = true
	default:
		matches = search.RecordsOf(in.Index.Search(in.Query))
		res.Searching = true
	}

	filtered := filter.Apply(matches, in.Tab)

	res.Matches = AnnotateAll(matches, in.Favorites)
	res.Filtered = AnnotateAll(filtered, in.Favorites)

	page := pagination.Clamp(in.Page, len(res.Filtered), size)
	p := pagination.Paginate(res.Filtered, size, page)
	res.Items = p.Items
	res.Pagination = p.Info
	return res
}
