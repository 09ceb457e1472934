package adapters

import (
	"strconv"

	"github.com/agentstation/atlas/internal/server/events"
	"github.com/agentstation/atlas/internal/server/sse"
)

// SSESubscriber forwards broker events to an SSE broadcaster.
type SSESubscriber struct {
	broadcaster *sse.Broadcaster
}

// NewSSESubscriber creates a subscriber for broadcaster.
func NewSSESubscriber(broadcaster *sse.Broadcaster) *SSESubscriber {
	return &SSESubscriber{broadcaster: broadcaster}
}

// Send queues the event. The SSE id is the event time in milliseconds.
func (s *SSESubscriber) Send(event events.Event) error {
	s.broadcaster.Broadcast(sse.Event{
		Event:   string(event.Type),
		ID:      strconv.FormatInt(event.Timestamp.UnixMilli(), 10),
		Session: event.Session,
		Data:    event.Data,
	})
	return nil
}

// Close is a no-op; the broadcaster stops with its own context.
func (s *SSESubscriber) Close() error {
	return nil
}
