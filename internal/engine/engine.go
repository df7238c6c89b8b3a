package engine

import (
	"context"
	"time"

	"github.com/songboard/songboard/internal/catalog"
	"github.com/songboard/songboard/internal/domain"
	"github.com/songboard/songboard/internal/notify"
	"github.com/songboard/songboard/internal/state"
	"go.uber.org/zap"
)

// Engine orchestrates the notification-to-song pipeline.
// It listens to push events, routes them against the catalog, publishes
// the selected song as the active one, and renders its poster.
type Engine struct {
	logger   *zap.Logger
	listener domain.Listener
	store    *catalog.Store
	active   *state.ActiveStore
	renderer domain.Renderer
}

// NewEngine creates a new orchestration engine
func NewEngine(
	logger *zap.Logger,
	listener domain.Listener,
	store *catalog.Store,
	active *state.ActiveStore,
	renderer domain.Renderer,
) *Engine {
	return &Engine{
		logger:   logger,
		listener: listener,
		store:    store,
		active:   active,
		renderer: renderer,
	}
}

// Start launches the engine's event processing loop in a goroutine.
// It returns immediately (non-blocking).
func (e *Engine) Start(ctx context.Context) error {
	e.logger.Info("Engine starting...")
	go e.runLoop(ctx)
	return nil
}

// runLoop is the main event processing loop with debouncing.
// Debouncing collapses notification bursts so only the last payload in a
// burst selects a song.
func (e *Engine) runLoop(ctx context.Context) {
	events := e.listener.Events()

	debounceDuration := 250 * time.Millisecond
	timer := time.NewTimer(debounceDuration)
	timer.Stop() // Start with stopped timer

	var pendingEvent *domain.PushEvent

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine loop stopped")
			return

		case event, ok := <-events:
			if !ok {
				e.logger.Info("Listener events channel closed")
				return
			}
			e.logger.Debug("Push event received, debouncing...",
				zap.String("kind", string(event.Kind)))

			// Save the latest event and reset the debounce timer
			pendingEvent = &event
			timer.Reset(debounceDuration)

		case <-timer.C:
			if pendingEvent != nil {
				e.processEvent(ctx, *pendingEvent)
				pendingEvent = nil
			}
		}
	}
}

// processEvent handles one push event end to end. Every failure path
// degrades to "no visible state change": unroutable payloads are
// absorbed, render failures leave the published state in place.
func (e *Engine) processEvent(ctx context.Context, event domain.PushEvent) {
	snapshot := e.store.Snapshot()

	song, ok := notify.Route(event.Payload, snapshot)
	if !ok {
		// Expected steady-state for notifications unrelated to songs
		e.logger.Debug("Push event selected no song",
			zap.String("kind", string(event.Kind)),
			zap.Int("catalogSize", len(snapshot)))
		return
	}

	e.logger.Info("Notification selected a song",
		zap.String("kind", string(event.Kind)),
		zap.Uint8("id", song.ID),
		zap.String("title", song.Title))

	e.active.Set(*song)

	posterPath, err := e.renderer.Render(*song)
	if err != nil {
		e.logger.Error("Failed to render poster", zap.Error(err))
		return
	}

	e.logger.Info("Poster updated successfully",
		zap.String("path", posterPath),
		zap.String("title", song.Title))
}

// Stop gracefully stops the engine and clears the selection
func (e *Engine) Stop(ctx context.Context) error {
	e.logger.Info("Engine stopping...")
	e.active.Clear()
	return nil
}
