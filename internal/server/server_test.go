package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/server/middleware"
	"github.com/agentstation/atlas/pkg/logging"
	"github.com/agentstation/atlas/pkg/pipeline"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code        string   `json:"code"`
		Message     string   `json:"message"`
		Suggestions []string `json:"suggestions"`
	} `json:"error"`
}

type harness struct {
	t      *testing.T
	url    string
	client atlas.Client
	server *Server
}

func newHarness(t *testing.T, mutate ...func(*Config)) *harness {
	t.Helper()
	c, err := atlas.New(context.Background(), atlas.WithLogger(logging.NewNopLogger()), atlas.WithChartDelay(0))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	app := &application.Mock{ClientFunc: func() (atlas.Client, error) { return c, nil }}
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	for _, m := range mutate {
		m(&cfg)
	}

	s, err := New(app, cfg)
	require.NoError(t, err)
	s.Start()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Shutdown(context.Background())
	})
	return &harness{t: t, url: ts.URL + cfg.PathPrefix, client: c, server: s}
}

func (h *harness) do(method, path string, body any, headers ...string) (int, envelope) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, h.url+path, r)
	require.NoError(h.t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func into[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type item struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Favorite bool   `json:"favorite"`
}

type page struct {
	Items      []item `json:"items"`
	Total      int    `json:"total"`
	Searching  bool   `json:"searching"`
	Pagination struct {
		Page       int `json:"page"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

func TestHealthAndReady(t *testing.T) {
	h := newHarness(t)
	status, _ := h.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := h.do("GET", "/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	ready := into[map[string]any](t, env.Data)
	assert.Equal(t, "embedded", ready["source"])
}

func TestRecords(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("GET", "/records?page=99", nil)
	require.Equal(t, http.StatusOK, status)
	p := into[page](t, env.Data)
	assert.Equal(t, 23, p.Total)
	assert.Equal(t, 3, p.Pagination.Page, "clamped to the last page")
	assert.Len(t, p.Items, 3)
	assert.False(t, p.Searching)

	status, env = h.do("GET", "/records?q=sales&tab=reports", nil)
	require.Equal(t, http.StatusOK, status)
	p = into[page](t, env.Data)
	assert.True(t, p.Searching)
	for _, it := range p.Items {
		assert.Equal(t, "Report", it.Kind)
	}

	status, env = h.do("GET", "/records?tab=widgets", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestGetRecord(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("GET", "/records/P001", nil)
	require.Equal(t, http.StatusOK, status)
	d := into[map[string]any](t, env.Data)
	assert.Equal(t, "Sales Performance Hub", d["title"])

	status, env = h.do("GET", "/records/P01", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.NotEmpty(t, env.Error.Suggestions)
}

func TestFavoritesInvalidateCache(t *testing.T) {
	h := newHarness(t)

	_, env := h.do("GET", "/records", nil)
	first := into[page](t, env.Data).Items[0]
	assert.False(t, first.Favorite)

	status, env := h.do("POST", "/favorites/"+first.ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"id": first.ID, "favorite": true}, into[map[string]any](t, env.Data))

	_, env = h.do("GET", "/records", nil)
	assert.True(t, into[page](t, env.Data).Items[0].Favorite, "cached page was flushed")

	_, env = h.do("GET", "/favorites", nil)
	favs := into[page](t, env.Data)
	require.Len(t, favs.Items, 1)
	assert.Equal(t, first.ID, favs.Items[0].ID)

	_, env = h.do("GET", "/shortcuts?kind=favorites", nil)
	assert.Len(t, into[[]item](t, env.Data), 1)

	status, _ = h.do("GET", "/shortcuts?kind=popular", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHistory(t *testing.T) {
	h := newHarness(t)

	status, _ := h.do("POST", "/history", map[string]string{"query": "churn"})
	require.Equal(t, http.StatusCreated, status)
	status, _ = h.do("POST", "/history", map[string]string{"query": "sales"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = h.do("POST", "/history", map[string]string{"query": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = h.do("POST", "/history", map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, status, "unknown fields are rejected")

	_, env := h.do("GET", "/history", nil)
	entries := into[[]map[string]any](t, env.Data)
	require.Len(t, entries, 2)
	assert.Equal(t, "sales", entries[0]["query"])

	_, env = h.do("GET", "/suggestions?q=sal", nil)
	sugg := into[[]map[string]any](t, env.Data)
	require.NotEmpty(t, sugg)
	assert.Equal(t, "history", sugg[0]["type"])

	status, _ = h.do("DELETE", "/history/5", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.do("DELETE", "/history/x", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, env = h.do("DELETE", "/history/1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "churn", into[map[string]any](t, env.Data)["query"])

	status, _ = h.do("DELETE", "/history", nil)
	assert.Equal(t, http.StatusNoContent, status)
	assert.Empty(t, h.client.History())
}

type sessionState struct {
	ID     string `json:"id"`
	Query  string `json:"query"`
	Tab    string `json:"tab"`
	Total  int    `json:"total"`
	Result page   `json:"result"`
}

func TestSessions(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("POST", "/sessions", map[string]any{"page": 3})
	require.Equal(t, http.StatusCreated, status)
	s := into[sessionState](t, env.Data)
	require.NotEmpty(t, s.ID)
	assert.Equal(t, 3, s.Result.Pagination.Page)
	assert.Equal(t, 1, h.server.Sessions().Len())

	status, env = h.do("PATCH", "/sessions/"+s.ID, map[string]any{"q": "sales", "tab": "reports"})
	require.Equal(t, http.StatusOK, status)
	s = into[sessionState](t, env.Data)
	assert.Equal(t, "sales", s.Query)
	assert.Equal(t, 1, s.Result.Pagination.Page, "query changes reset the page")
	require.NotEmpty(t, s.Result.Items)

	target := s.Result.Items[0].ID
	status, env = h.do("POST", "/sessions/"+s.ID+"/favorites/"+target+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	s = into[sessionState](t, env.Data)
	assert.True(t, s.Result.Items[0].Favorite)
	assert.True(t, h.client.IsFavorite(target))

	status, _ = h.do("DELETE", "/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = h.do("GET", "/sessions/"+s.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFavoriteToggleRefreshesEverySession(t *testing.T) {
	h := newHarness(t)

	_, env := h.do("POST", "/sessions", nil)
	a := into[sessionState](t, env.Data)
	_, env = h.do("POST", "/sessions", nil)
	b := into[sessionState](t, env.Data)
	require.NotEmpty(t, b.Result.Items)
	target := b.Result.Items[0].ID
	require.False(t, b.Result.Items[0].Favorite)

	live, err := h.server.Sessions().Get(b.ID)
	require.NoError(t, err)
	var changes atomic.Int32
	unsubscribe := live.Subscribe(func(pipeline.ResultsChanged) { changes.Add(1) })
	defer unsubscribe()

	status, env := h.do("PATCH", "/sessions/"+a.ID, map[string]any{"page": 2})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, into[sessionState](t, env.Data).Result.Pagination.Page)

	status, env = h.do("POST", "/sessions/"+a.ID+"/favorites/"+target+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, into[sessionState](t, env.Data).Result.Pagination.Page, "toggling returns to page 1")

	_, env = h.do("GET", "/sessions/"+b.ID, nil)
	b = into[sessionState](t, env.Data)
	assert.True(t, b.Result.Items[0].Favorite)
	assert.Positive(t, changes.Load())

	status, _ = h.do("POST", "/favorites/"+target+"/toggle", nil)
	require.Equal(t, http.StatusOK, status)

	for _, id := range []string{a.ID, b.ID} {
		_, env = h.do("GET", "/sessions/"+id, nil)
		s := into[sessionState](t, env.Data)
		assert.False(t, s.Result.Items[0].Favorite, "session %s", id)
	}
}

func TestSuggestionsListEveryMatch(t *testing.T) {
	h := newHarness(t)

	status, env := h.do("GET", "/suggestions?q=dataset", nil)
	require.Equal(t, http.StatusOK, status)
	results := 0
	for _, s := range into[[]map[string]any](t, env.Data) {
		if s["type"] == "result" {
			results++
		}
	}
	assert.GreaterOrEqual(t, results, 8, "every dataset matches on kind")
}

func TestReloadWithoutFile(t *testing.T) {
	h := newHarness(t)
	status, env := h.do("POST", "/reload", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestAuth(t *testing.T) {
	t.Setenv(middleware.APIKeyEnv, "secret")
	h := newHarness(t, func(c *Config) { c.AuthEnabled = true })

	status, _ := h.do("GET", "/records", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = h.do("GET", "/records", nil, "X-API-Key", "secret")
	assert.Equal(t, http.StatusOK, status)
	status, _ = h.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestSSEReceivesEvents(t *testing.T) {
	h := newHarness(t)

	resp, err := http.Get(h.url + "/updates/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	reader := bufio.NewReader(resp.Body)

	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "event: connected\n", line)

	// Keep toggling until the stream has registered and an event comes through.
	got := make(chan string, 1)
	go func() {
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "event: favorite.toggled") {
				got <- line
				return
			}
		}
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-got:
			return
		case <-tick.C:
			_, _ = h.client.ToggleFavorite(context.Background(), "P001")
		case <-deadline:
			t.Fatal("no favorite.toggled event received")
		}
	}
}
