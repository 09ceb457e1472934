package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas/pkg/logging"
)

func runHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount() == n }, time.Second, 5*time.Millisecond)
}

func TestHubBroadcastOrder(t *testing.T) {
	hub := runHub(t)
	c := NewClient("c1", hub, nil)
	hub.Register(c)
	waitClients(t, hub, 1)

	for i := 0; i < 20; i++ {
		hub.Broadcast(Message{Type: "ordered", Data: i})
	}
	for i := 0; i < 20; i++ {
		select {
		case m := <-c.send:
			assert.Equal(t, i, m.Data)
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for message %d", i)
		}
	}
}

func TestHubSessionFilter(t *testing.T) {
	hub := runHub(t)
	all := NewClient("all", hub, nil)
	s1 := NewClient("s1", hub, nil)
	s1.setSession("s1")
	hub.Register(all)
	hub.Register(s1)
	waitClients(t, hub, 2)

	hub.Broadcast(Message{Type: "results.changed", Session: "s2"})
	hub.Broadcast(Message{Type: "results.changed", Session: "s1"})

	m := <-s1.send
	assert.Equal(t, "s1", m.Session, "s2 events are filtered")
	assert.Equal(t, "s2", (<-all.send).Session)
	assert.Equal(t, "s1", (<-all.send).Session)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := runHub(t)
	c := &Client{id: "slow", hub: hub, send: make(chan Message, 2)}
	hub.Register(c)
	waitClients(t, hub, 1)

	for i := 0; i < 5; i++ {
		hub.Broadcast(Message{Type: "rapid"})
	}
	waitClients(t, hub, 0)
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient("c1", hub, nil)
	hub.Register(c) // before Run
	go hub.Run(ctx)
	waitClients(t, hub, 1)

	cancel()
	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.Zero(t, hub.ClientCount())
}

func dial(t *testing.T, hub *Hub, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestServeHTTP(t *testing.T) {
	hub := runHub(t)
	conn := dial(t, hub, "?session=s1")

	var m Message
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "client.connected", m.Type)
	assert.Equal(t, "s1", m.Data.(map[string]any)["session"])
	waitClients(t, hub, 1)

	hub.Broadcast(Message{Type: "results.changed", Session: "other"})
	hub.Broadcast(Message{Type: "results.changed", Session: "s1", Data: "mine"})
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "mine", m.Data)

	require.NoError(t, conn.WriteJSON(Command{Type: "ping"}))
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "pong", m.Type)

	require.NoError(t, conn.WriteJSON(Command{Type: "subscribe"}))
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "subscribed", m.Type)

	hub.Broadcast(Message{Type: "results.changed", Session: "other", Data: "theirs"})
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "theirs", m.Data)

	require.NoError(t, conn.WriteJSON(Command{Type: "dance"}))
	require.NoError(t, conn.ReadJSON(&m))
	assert.Equal(t, "error", m.Type)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}
