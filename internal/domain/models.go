package domain

// Song is an immutable catalog entry. Titles are the sole matching key
// for notification routing; color fields stay free-form strings until a
// renderer asks the color resolver for channel values.
type Song struct {
	// ID is unique within a catalog
	ID uint8
	// Title of the song, matched against notification text
	Title string
	// Lyrics are display-only
	Lyrics string
	// BackgroundColor is a color name or hex string
	BackgroundColor string
	// ForegroundColor is a color name or hex string
	ForegroundColor string
}

// Catalog is a read-only ordered snapshot of songs. It never mutates after
// construction; reloads build a fresh Catalog and swap it in whole.
type Catalog []Song

// Color holds normalized channel values in [0.0, 1.0]
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// DeliveryKind distinguishes how a push notification reached the process
type DeliveryKind string

const (
	// DeliveryForeground indicates the notification arrived while the
	// application was the active foreground process
	DeliveryForeground DeliveryKind = "foreground"
	// DeliveryActivated indicates the user acted on a notification that
	// arrived while the application was backgrounded
	DeliveryActivated DeliveryKind = "activated"
)

// PushEvent is one inbound notification as emitted by a listener.
// Payload carries the provider's JSON document verbatim.
type PushEvent struct {
	Kind    DeliveryKind
	Payload []byte
}
