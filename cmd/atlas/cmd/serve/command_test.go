package serve

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/atlas"
	"github.com/agentstation/atlas/cmd/application"
	"github.com/agentstation/atlas/internal/server"
	"github.com/agentstation/atlas/internal/server/middleware"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
)

func newMock(t *testing.T, catalogPath string) *application.Mock {
	t.Helper()
	opts := []atlas.Option{atlas.WithLogger(logging.NewNopLogger()), atlas.WithChartDelay(0)}
	if catalogPath != "" {
		opts = append(opts, atlas.WithCatalogFile(catalogPath))
	}
	client, err := atlas.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return &application.Mock{
		ClientFunc:      func() (atlas.Client, error) { return client, nil },
		CatalogPathFunc: func() string { return catalogPath },
	}
}

func testOptions() Options {
	cfg := server.DefaultConfig()
	cfg.Port = 0
	cfg.RateLimit = 0
	return Options{Server: cfg}
}

func TestServeAuthNeedsKey(t *testing.T) {
	t.Setenv(middleware.APIKeyEnv, "")
	cmd := NewCommand(newMock(t, ""), testOptions())
	cmd.SetArgs([]string{"--auth"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestServeWatchNeedsCatalog(t *testing.T) {
	cmd := NewCommand(newMock(t, ""), testOptions())
	cmd.SetArgs([]string{"--watch"})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestServeFlagsOverrideOptions(t *testing.T) {
	cmd := NewCommand(newMock(t, ""), testOptions())
	require.NoError(t, cmd.ParseFlags([]string{"--port", "9999", "--prefix", "/v2", "--watch"}))

	port, err := cmd.Flags().GetInt("port")
	require.NoError(t, err)
	assert.Equal(t, 9999, port)
	prefix, err := cmd.Flags().GetString("prefix")
	require.NoError(t, err)
	assert.Equal(t, "/v2", prefix)
	watch, err := cmd.Flags().GetBool("watch")
	require.NoError(t, err)
	assert.True(t, watch)
}

func TestServeStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`records:
  - id: P1
    kind: Product
    title: Revenue Cockpit
    description: Revenue at a glance.
    publishedStatus: Published
`), 0o644))

	cmd := NewCommand(newMock(t, path), testOptions())
	cmd.SetArgs([]string{"--watch", "--host", "127.0.0.1"})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop after cancellation")
	}
}
