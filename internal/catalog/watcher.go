package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reload debounce: editors and package managers often rewrite a file as
// several events in quick succession.
const watchDebounce = 200 * time.Millisecond

// Watcher reloads the catalog when the bundled file changes on disk.
// It watches the parent directory rather than the file itself so that
// atomic-rename saves keep being observed.
type Watcher struct {
	logger *zap.Logger
	path   string
	reload func(context.Context) error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher for the given catalog file. reload is
// invoked after each observed change.
func NewWatcher(logger *zap.Logger, path string, reload func(context.Context) error) *Watcher {
	return &Watcher{
		logger: logger,
		path:   filepath.Clean(path),
		reload: reload,
	}
}

// Start begins watching the catalog file. It returns immediately.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.running = true
	w.cancel = cancel
	w.watcher = fsw

	w.wg.Add(1)
	go w.watchLoop(watchCtx, fsw)

	w.logger.Info("Catalog watcher started",
		zap.String("path", w.path),
		zap.String("dir", dir))
	return nil
}

// watchLoop debounces file events and triggers reloads
func (w *Watcher) watchLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()

	timer := time.NewTimer(watchDebounce)
	timer.Stop() // Start with stopped timer
	pending := false

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Catalog watcher loop stopped")
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("Catalog file changed", zap.String("op", event.Op.String()))
			pending = true
			timer.Reset(watchDebounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", zap.Error(err))

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := w.reload(ctx); err != nil {
				// Already logged by the loader; the snapshot is unchanged
				w.logger.Debug("Reload after file change failed", zap.Error(err))
			}
		}
	}
}

// Stop gracefully stops the watcher
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()

	if !w.running {
		w.mu.Unlock()
		return nil
	}

	if w.cancel != nil {
		w.cancel()
	}
	w.running = false
	fsw := w.watcher
	w.watcher = nil
	w.mu.Unlock()

	if fsw != nil {
		if err := fsw.Close(); err != nil {
			w.logger.Warn("Failed to close file watcher", zap.Error(err))
		}
	}

	w.wg.Wait()
	w.logger.Info("Catalog watcher stopped")
	return nil
}
