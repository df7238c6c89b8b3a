//go:build linux

// Package listener bridges the push-notification transport onto
// PushEvents. The session-bus implementation subscribes to the push
// bridge's Delivered and Activated signals; both delivery paths end up as
// events on the same channel so downstream routing cannot diverge.
package listener

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

const (
	pushInterface  = "io.songboard.Push1"
	pushObjectPath = "/io/songboard/Push1"

	// Delivered fires when a notification arrives while the application
	// is foregrounded; Activated fires when the user acts on one that
	// arrived while backgrounded.
	memberDelivered = "Delivered"
	memberActivated = "Activated"
)

// DBusListener receives push payloads forwarded over the session bus
type DBusListener struct {
	logger          *zap.Logger
	events          chan domain.PushEvent
	mu              sync.RWMutex
	running         bool
	cancel          context.CancelFunc
	conn            DBusClient     // Interface for testability
	lastDropWarning time.Time      // Rate limiting for "channel full" warnings
	wg              sync.WaitGroup // Tracks the signal goroutine
}

// NewDBusListener creates a new session-bus push listener
func NewDBusListener(logger *zap.Logger) *DBusListener {
	return &DBusListener{
		logger: logger,
		events: make(chan domain.PushEvent, 10),
	}
}

// Start begins listening for push signals. It blocks until the context
// is cancelled or the bus connection fails.
func (l *DBusListener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return nil
	}
	l.running = true

	listenCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	l.logger.Info("Push listener started")

	// Connect to Session Bus (this may block)
	conn, err := NewStdDBusClient()
	if err != nil {
		l.logger.Error("Failed to connect to session bus", zap.Error(err))
		cancel()
		l.mu.Lock()
		defer l.mu.Unlock()
		l.running = false
		l.cancel = nil
		return fmt.Errorf("session bus connection failed: %w", err)
	}

	// Check if we were stopped while connecting to D-Bus
	select {
	case <-listenCtx.Done():
		l.logger.Info("Listener stopped during D-Bus connection")
		if err := conn.Close(); err != nil {
			l.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
		return listenCtx.Err()
	default:
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	for _, member := range []string{memberDelivered, memberActivated} {
		if err := conn.AddMatchSignal(
			dbus.WithMatchObjectPath(pushObjectPath),
			dbus.WithMatchInterface(pushInterface),
			dbus.WithMatchMember(member),
		); err != nil {
			l.logger.Error("Failed to add match signal",
				zap.String("member", member),
				zap.Error(err))
			return fmt.Errorf("failed to add match signal for %s: %w", member, err)
		}
	}

	l.logger.Info("D-Bus match rules added", zap.String("interface", pushInterface))

	l.wg.Add(1)
	go l.watchSignals(listenCtx)

	// Block until context is cancelled
	<-listenCtx.Done()

	l.logger.Info("Push listener stopped")
	return listenCtx.Err()
}

// Stop gracefully stops the listener
func (l *DBusListener) Stop(ctx context.Context) error {
	l.mu.Lock()

	if !l.running {
		l.mu.Unlock()
		return nil
	}

	if l.cancel != nil {
		l.cancel()
	}

	l.running = false
	l.mu.Unlock()

	// Wait for the signal goroutine before closing the channel, otherwise
	// a late emit would panic
	l.wg.Wait()
	close(l.events)

	l.mu.Lock()
	if l.conn != nil {
		if err := l.conn.Close(); err != nil {
			l.logger.Warn("Failed to close D-Bus connection", zap.Error(err))
		}
	}
	l.mu.Unlock()

	l.logger.Info("Push listener shutdown complete")
	return nil
}

// Events returns a read-only channel that emits PushEvents
func (l *DBusListener) Events() <-chan domain.PushEvent {
	return l.events
}

// watchSignals listens for D-Bus signals and processes them
func (l *DBusListener) watchSignals(ctx context.Context) {
	defer l.wg.Done()

	signals := make(chan *dbus.Signal, 10)

	l.mu.RLock()
	conn := l.conn
	l.mu.RUnlock()
	conn.Signal(signals)

	l.logger.Info("Signal listening goroutine started")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Signal listening goroutine stopped")
			return
		case sig := <-signals:
			if sig == nil {
				continue
			}
			l.handleSignal(sig)
		}
	}
}

// handleSignal converts one push signal into a PushEvent
func (l *DBusListener) handleSignal(sig *dbus.Signal) {
	var kind domain.DeliveryKind

	switch sig.Name {
	case pushInterface + "." + memberDelivered:
		kind = domain.DeliveryForeground
	case pushInterface + "." + memberActivated:
		kind = domain.DeliveryActivated
	default:
		return // Not a push signal
	}

	if len(sig.Body) < 1 {
		l.logger.Warn("Push signal without payload, ignoring", zap.String("signal", sig.Name))
		return
	}

	// SAFE CAST: the bridge sends the provider payload as a string; any
	// other type is a misbehaving sender
	raw, ok := sig.Body[0].(string)
	if !ok {
		l.logger.Warn("Push signal payload is not a string, ignoring",
			zap.String("signal", sig.Name))
		return
	}

	event := domain.PushEvent{
		Kind:    kind,
		Payload: []byte(raw),
	}

	// Non-blocking send: the consumer debounces, dropping intermediate
	// events under burst is acceptable
	select {
	case l.events <- event:
		l.logger.Debug("Push event emitted",
			zap.String("kind", string(kind)),
			zap.Int("bytes", len(raw)))
	default:
		l.logChannelFullWarning()
	}
}

// logChannelFullWarning logs a warning about the channel being full, but
// rate-limited to avoid log spam during notification bursts
func (l *DBusListener) logChannelFullWarning() {
	l.mu.Lock()
	defer l.mu.Unlock()

	const warningInterval = 5 * time.Second
	now := time.Now()

	if now.Sub(l.lastDropWarning) >= warningInterval {
		l.logger.Warn("Push events channel full, dropping event (consumer may be slow)")
		l.lastDropWarning = now
	}
}
