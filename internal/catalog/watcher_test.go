package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	reloaded := make(chan struct{}, 4)
	watcher := NewWatcher(newTestLogger(), path, func(ctx context.Context) error {
		reloaded <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop(context.Background()) }()

	require.NoError(t, os.WriteFile(path, []byte(validCatalogJSON), 0644))

	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a reload after catalog file change")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	reloaded := make(chan struct{}, 4)
	watcher := NewWatcher(newTestLogger(), path, func(ctx context.Context) error {
		reloaded <- struct{}{}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, watcher.Start(ctx))
	defer func() { _ = watcher.Stop(context.Background()) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case <-reloaded:
		t.Fatal("unrelated file change must not trigger a reload")
	case <-time.After(600 * time.Millisecond):
	}
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[]`), 0644))

	watcher := NewWatcher(newTestLogger(), path, func(ctx context.Context) error { return nil })

	ctx := context.Background()
	require.NoError(t, watcher.Start(ctx))
	require.NoError(t, watcher.Start(ctx)) // second start is a no-op
	require.NoError(t, watcher.Stop(ctx))
	require.NoError(t, watcher.Stop(ctx)) // second stop is a no-op
}

func TestWatcher_MissingDirFailsStart(t *testing.T) {
	watcher := NewWatcher(newTestLogger(), "/definitely/not/here/catalog.json", func(ctx context.Context) error { return nil })
	err := watcher.Start(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to watch")
}
