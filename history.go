package atlas

import (
	"context"

	"github.com/agentstation/atlas/pkg/history"
	"github.com/agentstation/atlas/pkg/logging"
)

// History manages the saved search history.
type History interface {
	// History returns the saved searches, newest first.
	History() []history.Entry

	// AddHistory saves query as the newest entry.
	AddHistory(ctx context.Context, query string) (history.Entry, error)

	// RemoveHistory deletes the entry at index (0 is the newest).
	RemoveHistory(ctx context.Context, index int) (history.Entry, error)

	// ClearHistory deletes every entry.
	ClearHistory(ctx context.Context) error
}

// History returns the saved searches, newest first.
func (c *client) History() []history.Entry {
	return c.history.List()
}

// AddHistory saves query as the newest entry.
func (c *client) AddHistory(ctx context.Context, query string) (history.Entry, error) {
	e, err := c.history.Add(ctx, query)
	if err != nil {
		return e, err
	}
	logging.FromContext(ctx).Debug().Str("query", e.Query).Msg("Search saved to history")
	c.hooks.historyChanged(c.history.List())
	return e, nil
}

// RemoveHistory deletes the entry at index.
func (c *client) RemoveHistory(ctx context.Context, index int) (history.Entry, error) {
	e, err := c.history.Remove(ctx, index)
	if err != nil {
		return e, err
	}
	c.hooks.historyChanged(c.history.List())
	return e, nil
}

// ClearHistory deletes every entry.
func (c *client) ClearHistory(ctx context.Context) error {
	if err := c.history.Clear(ctx); err != nil {
		return err
	}
	c.hooks.historyChanged(c.history.List())
	return nil
}
