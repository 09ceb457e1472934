package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas/pkg/logging"
)

func register(t *testing.T, b *Broadcaster, session string) *client {
	t.Helper()
	c := &client{ch: make(chan Event, 8), session: session}
	b.newClients <- c
	require.Eventually(t, func() bool {
		b.mu.RLock()
		defer b.mu.RUnlock()
		return b.clients[c]
	}, time.Second, 5*time.Millisecond)
	return c
}

func receive(t *testing.T, c *client) (Event, bool) {
	t.Helper()
	select {
	case e := <-c.ch:
		return e, true
	case <-time.After(100 * time.Millisecond):
		return Event{}, false
	}
}

func TestBroadcasterSessionFilter(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	all := register(t, b, "")
	s1 := register(t, b, "s1")
	s2 := register(t, b, "s2")
	assert.Equal(t, 3, b.ClientCount())

	b.Broadcast(Event{Event: "results.changed", Session: "s1", Data: 1})

	e, ok := receive(t, all)
	require.True(t, ok)
	assert.Equal(t, 1, e.Data)
	_, ok = receive(t, s1)
	assert.True(t, ok)
	_, ok = receive(t, s2)
	assert.False(t, ok, "other sessions are filtered")

	b.Broadcast(Event{Event: "history.changed"})
	_, ok = receive(t, s2)
	assert.True(t, ok, "global events reach every client")
}

func TestBroadcasterShutdownClosesClients(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	c := register(t, b, "")
	cancel()

	select {
	case _, ok := <-c.ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
	assert.Zero(t, b.ClientCount())
}

func TestServeHTTPStreams(t *testing.T) {
	b := NewBroadcaster(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	srv := httptest.NewServer(b)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?session=s1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return b.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	b.Broadcast(Event{Event: "favorite.toggled", ID: "1", Data: map[string]any{"id": "P001"}})

	var frame []string
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: favorite.toggled") {
			frame = append(frame, line)
			continue
		}
		if len(frame) > 0 {
			frame = append(frame, line)
			if line == "\n" {
				break
			}
		}
	}
	assert.Equal(t, []string{"event: favorite.toggled\n", "id: 1\n", "data: {\"id\":\"P001\"}\n", "\n"}, frame)
}
