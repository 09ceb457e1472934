// Package events fans client hook callbacks out to the realtime transports.
//
// The server registers atlas hooks that publish to a Broker; the WebSocket
// hub and the SSE broadcaster subscribe to it through the adapters package.
package events

import "time"

// EventType names a realtime event.
type EventType string

// Event types.
const (
	// ResultsChanged carries a session's new filtered results and matches.
	ResultsChanged EventType = "results.changed"
	// FavoriteToggled carries a record id and its new favorite flag.
	FavoriteToggled EventType = "favorite.toggled"
	// HistoryChanged carries the full history list, newest first.
	HistoryChanged EventType = "history.changed"
	// CatalogReloaded is published after a successful catalog reload.
	CatalogReloaded EventType = "catalog.reloaded"

	// SessionCreated and SessionClosed track the HTTP session registry.
	SessionCreated EventType = "session.created"
	SessionClosed  EventType = "session.closed"

	// ClientConnected is sent by transports to a newly connected client.
	ClientConnected EventType = "client.connected"
)

// Event is one published event. Session is set for session-scoped events
// so transports can filter per subscriber.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Session   string    `json:"session,omitempty"`
	Data      any       `json:"data"`
}
