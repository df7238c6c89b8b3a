// Package notify turns inbound push payloads into song selections. Title
// extraction and catalog matching live here as pure functions so every
// delivery path (foreground delivery, user-activated notification) flows
// through the exact same logic.
package notify

import (
	"bytes"
	"encoding/json"
)

// payload mirrors the provider's document: an `aps` object whose `alert`
// is either a plain string or an object with a `body` field. RawMessage
// defers the shape decision to extraction time.
type payload struct {
	APS struct {
		Alert json.RawMessage `json:"alert"`
	} `json:"aps"`
}

// ExtractTitle pulls the song title out of a push payload.
//
// A string-shaped alert is the title itself; an object-shaped alert
// carries it in `body`. Any other shape, including payloads that are not
// valid JSON, yields no title. Absence of a title is expected for
// notifications unrelated to songs and is not an error.
func ExtractTitle(data []byte) (string, bool) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", false
	}

	// A JSON null unmarshals into a string without error, so it has to
	// be rejected explicitly
	if len(p.APS.Alert) == 0 || bytes.Equal(bytes.TrimSpace(p.APS.Alert), []byte("null")) {
		return "", false
	}

	var direct string
	if err := json.Unmarshal(p.APS.Alert, &direct); err == nil {
		return direct, true
	}

	var alert struct {
		Body *string `json:"body"`
	}
	if err := json.Unmarshal(p.APS.Alert, &alert); err == nil && alert.Body != nil {
		return *alert.Body, true
	}

	return "", false
}
