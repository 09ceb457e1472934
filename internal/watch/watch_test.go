package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/agentstation/atlas/internal/watch"
	"github.com/agentstation/atlas/pkg/errors"
	"github.com/agentstation/atlas/pkg/logging"
)

func TestNewValidation(t *testing.T) {
	_, err := watch.New("", func(context.Context) error { return nil })
	assert.True(t, errors.IsValidationError(err))

	_, err = watch.New("catalog.json", nil)
	assert.True(t, errors.IsValidationError(err))

	w, err := watch.New("catalog.json", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(w.Path()))
}

func TestRunReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	var reloads atomic.Int32
	w, err := watch.New(path, func(context.Context) error {
		reloads.Add(1)
		return nil
	}, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), logging.NewNopLogger()))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o600))
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`[{"id":"A"}]`), 0o600))
	}

	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunSurvivesReloadErrors(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0o600))

	var calls atomic.Int32
	w, err := watch.New(path, func(context.Context) error {
		calls.Add(1)
		return errors.New("bad catalog")
	}, watch.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(logging.WithLogger(context.Background(), logging.NewNopLogger()))
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(`x`), 0o600))
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	before := calls.Load()
	require.NoError(t, os.WriteFile(path, []byte(`y`), 0o600))
	require.Eventually(t, func() bool { return calls.Load() > before }, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunMissingDirectory(t *testing.T) {
	w, err := watch.New(filepath.Join(t.TempDir(), "gone", "catalog.json"), func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Error(t, w.Run(context.Background()))
}
