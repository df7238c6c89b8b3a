// Package state owns the process-wide "active song" — the song the
// presentation layer should currently be showing because a notification
// selected it. It is an explicitly constructed store with a defined
// lifecycle, not an ambient singleton.
package state

import (
	"sync"

	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

// Change is emitted to subscribers whenever the active song changes.
// A nil Song means the selection was cleared.
type Change struct {
	Song *domain.Song
}

// ActiveStore serializes every mutation of the active song onto a single
// dispatch goroutine, the daemon's stand-in for a UI-update context.
// Notification delivery may happen on any goroutine; Set and Clear only
// enqueue, the dispatch loop performs the actual replace. Reads take a
// lock instead of queueing so observers never block behind writers.
type ActiveStore struct {
	logger *zap.Logger

	mu      sync.RWMutex
	current *domain.Song

	// sendMu guards closed and the ops channel so Close never races a
	// concurrent enqueue
	sendMu sync.Mutex
	closed bool

	ops    chan func()
	events chan Change
	done   chan struct{}
}

// NewActiveStore creates the store and starts its dispatch goroutine
func NewActiveStore(logger *zap.Logger) *ActiveStore {
	s := &ActiveStore{
		logger: logger,
		ops:    make(chan func(), 16),
		events: make(chan Change, 8),
		done:   make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// dispatch runs queued mutations one at a time, in submission order
func (s *ActiveStore) dispatch() {
	defer close(s.done)
	for op := range s.ops {
		op()
	}
}

// Set publishes the given song as the active one. Re-setting the song
// that is already active is observably a no-op: no state change, no
// change event.
func (s *ActiveStore) Set(song domain.Song) {
	s.enqueue(func() {
		if s.sameAsCurrent(song) {
			s.logger.Debug("Active song unchanged", zap.String("title", song.Title))
			return
		}

		s.mu.Lock()
		copied := song
		s.current = &copied
		s.mu.Unlock()

		s.logger.Info("Active song set",
			zap.Uint8("id", song.ID),
			zap.String("title", song.Title))
		s.emit(Change{Song: &copied})
	})
}

// Clear empties the selection. Intended for the consumer's explicit
// dismissal (user navigated away) and for teardown.
func (s *ActiveStore) Clear() {
	s.enqueue(func() {
		s.mu.Lock()
		wasSet := s.current != nil
		s.current = nil
		s.mu.Unlock()

		if !wasSet {
			return
		}

		s.logger.Info("Active song cleared")
		s.emit(Change{Song: nil})
	})
}

// Revalidate clears the active song when the given catalog no longer
// carries it. Invoked after every catalog swap so the selection never
// references a song absent from the current snapshot.
func (s *ActiveStore) Revalidate(catalog domain.Catalog) {
	s.enqueue(func() {
		s.mu.RLock()
		current := s.current
		s.mu.RUnlock()

		if current == nil {
			return
		}

		for i := range catalog {
			if catalog[i].ID == current.ID && catalog[i].Title == current.Title {
				return
			}
		}

		s.mu.Lock()
		s.current = nil
		s.mu.Unlock()

		s.logger.Info("Active song dropped by catalog reload, clearing selection",
			zap.Uint8("id", current.ID),
			zap.String("title", current.Title))
		s.emit(Change{Song: nil})
	})
}

// Current returns the active song, if any
func (s *ActiveStore) Current() (domain.Song, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return domain.Song{}, false
	}
	return *s.current, true
}

// Events returns a read-only channel of selection changes
func (s *ActiveStore) Events() <-chan Change {
	return s.events
}

// Close stops the dispatch goroutine and closes the events channel.
// Mutations submitted after Close are dropped.
func (s *ActiveStore) Close() {
	s.sendMu.Lock()
	if s.closed {
		s.sendMu.Unlock()
		return
	}
	s.closed = true
	close(s.ops)
	s.sendMu.Unlock()

	<-s.done
	close(s.events)
	s.logger.Debug("Active song store closed")
}

// enqueue submits a mutation to the dispatch goroutine, dropping it when
// the store is already closed
func (s *ActiveStore) enqueue(op func()) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	if s.closed {
		s.logger.Debug("Store closed, dropping state update")
		return
	}
	s.ops <- op
}

// sameAsCurrent reports whether the song equals the active one
func (s *ActiveStore) sameAsCurrent(song domain.Song) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && *s.current == song
}

// emit sends a change event without ever blocking the dispatch loop
func (s *ActiveStore) emit(c Change) {
	select {
	case s.events <- c:
	default:
		s.logger.Warn("Change events channel full, dropping event (consumer may be slow)")
	}
}
