//go:build !linux

package listener

import (
	"context"
	"fmt"

	"github.com/songboard/songboard/internal/domain"
	"go.uber.org/zap"
)

// DBusListener stub for non-Linux platforms
type DBusListener struct {
	logger *zap.Logger
}

// NewDBusListener creates a stub listener that returns an error on non-Linux platforms
func NewDBusListener(logger *zap.Logger) *DBusListener {
	return &DBusListener{logger: logger}
}

// Start returns an error indicating session-bus push delivery is not supported on this platform
func (l *DBusListener) Start(ctx context.Context) error {
	return fmt.Errorf("session-bus push delivery is only supported on Linux systems")
}

// Events returns a closed channel since push delivery is not available
func (l *DBusListener) Events() <-chan domain.PushEvent {
	ch := make(chan domain.PushEvent)
	close(ch)
	return ch
}

// Stop is a no-op on non-Linux platforms
func (l *DBusListener) Stop(ctx context.Context) error {
	return nil
}
