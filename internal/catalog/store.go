package catalog

import (
	"sync"

	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

// Store holds the current catalog snapshot. The snapshot itself never
// mutates; reloads replace it whole, so readers work on a consistent view
// without further coordination.
type Store struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	snapshot domain.Catalog
	onSwap   func(domain.Catalog)
}

// NewStore creates an empty catalog store
func NewStore(logger *zap.Logger) *Store {
	return &Store{logger: logger}
}

// Snapshot returns the current catalog. The returned slice must be
// treated as read-only.
func (s *Store) Snapshot() domain.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Swap atomically replaces the current snapshot and invokes the
// registered swap hook with the new catalog.
func (s *Store) Swap(catalog domain.Catalog) {
	s.mu.Lock()
	s.snapshot = catalog
	hook := s.onSwap
	s.mu.Unlock()

	s.logger.Debug("Catalog snapshot swapped", zap.Int("songs", len(catalog)))

	if hook != nil {
		hook(catalog)
	}
}

// OnSwap registers a hook invoked after every snapshot swap. Used to
// re-validate the active song so it never dangles after a reload.
func (s *Store) OnSwap(hook func(domain.Catalog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSwap = hook
}
