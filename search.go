package atlas

import (
	"context"
	"strings"

	"github.com/agentstation/atlas/pkg/constants"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/filter"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pipeline"
)

// Query describes one stateless search request.
type Query struct {
	Text     string     `json:"q" yaml:"q"`
	Tab      filter.Tab `json:"tab" yaml:"tab"`
	Page     int        `json:"page" yaml:"page"`
	PageSize int        `json:"page_size" yaml:"page_size"`
}

// ShortcutKind selects a shortcut list.
type ShortcutKind string

// Shortcut lists.
const (
	ShortcutRecommended ShortcutKind = "recommended"
	ShortcutFavorites   ShortcutKind = "favorites"
)

// ParseShortcutKind parses a shortcut list name. Empty selects recommended.
func ParseShortcutKind(s string) (ShortcutKind, error) {
	switch ShortcutKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShortcutRecommended:
		return ShortcutRecommended, nil
	case ShortcutFavorites, "favourites":
		return ShortcutFavorites, nil
	default:
		return "", errors.NewValidationError("shortcuts", s, "want recommended or favorites")
	}
}

// Searcher runs searches and creates result sessions.
type Searcher interface {
	// Search computes one result page.
	Search(ctx context.Context, q Query) pipeline.Result

	// NewSession creates a result session bound to this client. Its results
	// are published to OnResultsChanged hooks and its favorite toggles are
	// persisted through the client.
	NewSession(opts ...pipeline.SessionOption) *pipeline.Session

	// Suggest builds the search box dropdown for the typed text.
	Suggest(text string) []pipeline.Suggestion

	// PromptSuggestions samples up to n published records as prompts.
	PromptSuggestions(n int) []pipeline.Prompt

	// Shortcuts returns the recommended or recent favorite shortcut list.
	Shortcuts(kind ShortcutKind) []pipeline.Item

	// Summary aggregates the unpaginated, untabbed results of query.
	Summary(ctx context.Context, query string) pipeline.Summary

	// PageSize returns the configured search page size.
	PageSize() int
}

// Search computes one result page. A zero page size uses the client's.
func (c *client) Search(ctx context.Context, q Query) pipeline.Result {
	size := q.PageSize
	if size <= 0 {
		size = c.options.pageSize
	}
	res := pipeline.Compute(pipeline.Input{
		Published: c.Published(),
		Index:     c.Index(),
		Favorites: c.favorites,
		Query:     q.Text,
		Tab:       q.Tab,
		Page:      q.Page,
		PageSize:  size,
	})
	logging.FromContext(ctx).Debug().
		Str("query", q.Text).
		Str("tab", q.Tab.String()).
		Int("page", res.Pagination.Page).
		Int("results", len(res.Filtered)).
		Bool("loading", res.Loading).
		Msg("Search computed")
	return res
}

// NewSession creates a result session bound to this client.
func (c *client) NewSession(opts ...pipeline.SessionOption) *pipeline.Session {
	base := []pipeline.SessionOption{
		pipeline.WithPageSize(c.options.pageSize),
		pipeline.WithObserver(c.hooks.resultsChanged),
	}
	s := pipeline.NewSession(c, sessionFavorites{c}, append(base, opts...)...)
	if c.options.chartDelay > 0 {
		s.DelayChart(c.options.chartDelay)
	}
	c.logger.Debug().Str("session_id", s.ID()).Msg("Session created")
	return s
}

// Suggest builds the search box dropdown using the owner-aware index.
func (c *client) Suggest(text string) []pipeline.Suggestion {
	c.mu.RLock()
	index := c.boxIndex
	c.mu.RUnlock()
	return pipeline.Suggest(text, c.history, index)
}

// PromptSuggestions samples up to n published records; n <= 0 uses the default.
func (c *client) PromptSuggestions(n int) []pipeline.Prompt {
	if n <= 0 || n > constants.PromptLimit {
		n = constants.PromptLimit
	}
	published := c.Published()
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return pipeline.Prompts(published, n, c.rng)
}

// Shortcuts returns seven random published records or the seven most
// recently favorited ones, newest first.
func (c *client) Shortcuts(kind ShortcutKind) []pipeline.Item {
	if kind == ShortcutFavorites {
		return c.RecentFavorites(constants.ShortcutLimit)
	}
	return pipeline.AnnotateAll(c.sample(constants.ShortcutLimit), c.favorites)
}

// Summary aggregates the results of query across all tabs.
func (c *client) Summary(ctx context.Context, query string) pipeline.Summary {
	res := c.Search(ctx, Query{Text: query, Tab: filter.TabAll})
	sum := pipeline.Summarize(res.Matches)
	sum.Loading = res.Loading
	return sum
}

// PageSize returns the configured search page size.
func (c *client) PageSize() int { return c.options.pageSize }

// sessionFavorites routes session toggles through the client so hooks fire.
type sessionFavorites struct {
	c *client
}

func (f sessionFavorites) IsFavorite(id string) bool { return f.c.IsFavorite(id) }

func (f sessionFavorites) Toggle(ctx context.Context, id string) (bool, error) {
	return f.c.ToggleFavorite(ctx, id)
}
