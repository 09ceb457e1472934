package app

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/internal/server"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
)

// testConfig returns a config with in-memory state and JSON output.
func testConfig() *Config {
	return &Config{
		Format:            "json",
		NoColor:           true,
		Storage:           "memory",
		PageSize:          10,
		FavoritesPageSize: 12,
		Server:            server.DefaultConfig(),
		LogFormat:         "json",
		LogOutput:         "stderr",
	}
}

func newTestApp(t *testing.T, cfg *Config) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a, err := New("1.0.0", "abc123", "2026-01-01", "test",
		WithConfig(cfg),
		WithLogger(logging.NewNopLogger()),
		WithOutput(&stdout, &stderr),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return a, &stdout, &stderr
}

func TestAppNew(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig())

	assert.Equal(t, "1.0.0", a.Version())
	assert.Equal(t, "abc123", a.Commit())
	assert.Equal(t, "2026-01-01", a.Date())
	assert.Equal(t, "test", a.BuiltBy())
	assert.NotNil(t, a.Logger())
	assert.NotNil(t, a.Config())
	assert.Equal(t, "json", a.OutputFormat())
	assert.True(t, a.NoColor())
	assert.Empty(t, a.CatalogPath())
}

func TestAppWithNilConfig(t *testing.T) {
	_, err := New("dev", "", "", "", WithConfig(nil))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestAppClientSingleton(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig())

	c1, err := a.Client()
	require.NoError(t, err)
	c2, err := a.Client()
	require.NoError(t, err)

	assert.Same(t, c1, c2)
	assert.Equal(t, atlas.EmbeddedSource, c1.Source())
}

func TestAppClientThreadSafe(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig())

	const n = 16
	clients := make([]atlas.Client, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := a.Client()
			assert.NoError(t, err)
			clients[i] = c
		}()
	}
	wg.Wait()

	for _, c := range clients[1:] {
		assert.Same(t, clients[0], c)
	}
}

func TestAppClientOptionsInvalidStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Storage = "redis"
	a, _, _ := newTestApp(t, cfg)

	_, err := a.Client()
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestAppClientMissingCatalog(t *testing.T) {
	cfg := testConfig()
	cfg.CatalogPath = "/definitely/not/here.yaml"
	a, _, _ := newTestApp(t, cfg)

	_, err := a.Client()
	assert.Error(t, err)
}

func TestAppWithClient(t *testing.T) {
	c, err := atlas.New(context.Background(), atlas.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	a, err := New("dev", "", "", "", WithConfig(testConfig()), WithClient(c))
	require.NoError(t, err)

	got, err := a.Client()
	require.NoError(t, err)
	assert.Same(t, c, got)
	require.NoError(t, a.Shutdown(context.Background()))
}

func TestAppShutdown(t *testing.T) {
	a, _, _ := newTestApp(t, testConfig())

	// Nothing created yet.
	require.NoError(t, a.Shutdown(context.Background()))

	c1, err := a.Client()
	require.NoError(t, err)
	require.NoError(t, a.Shutdown(context.Background()))

	// A new client is created after shutdown.
	c2, err := a.Client()
	require.NoError(t, err)
	assert.NotSame(t, c1, c2)
}
