package domain

import "context"

// Source defines the interface for obtaining raw catalog bytes.
// Implementations read a bundled file or fetch a remote URL.
type Source interface {
	// Load returns the raw catalog document
	Load(ctx context.Context) ([]byte, error)

	// Describe returns a human-readable origin for logging
	Describe() string
}

// Listener defines the interface for inbound push notification delivery.
// Implementations bridge an external transport onto PushEvents.
type Listener interface {
	// Start begins listening for push events
	// It should block until context is cancelled or an error occurs
	Start(ctx context.Context) error

	// Stop gracefully stops the listener
	Stop(ctx context.Context) error

	// Events returns a read-only channel that emits PushEvents
	// as notifications are delivered
	Events() <-chan PushEvent
}

// Renderer defines the interface for producing the visible output for a song
type Renderer interface {
	// Render produces the poster for the given song and returns the
	// path to the generated file
	Render(song Song) (string, error)
}

// Config defines the interface for application configuration
type Config interface {
	// UseRemote reports whether the catalog is fetched from the remote
	// URL instead of the bundled file
	UseRemote() bool

	// CatalogPath returns the bundled catalog file path
	CatalogPath() string

	// RemoteURL returns the remote catalog URL
	RemoteURL() string

	// OutputDir returns the directory for generated posters
	OutputDir() string
}
