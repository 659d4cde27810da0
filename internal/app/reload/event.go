/*
Package reload pushes change notifications to browsers viewing the bundle.

The Watcher polls the bundle directory and reports changed files; the Hub fans each
change out as an Event to every connected WebSocket Client.
*/
package reload

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types sent to browsers.
const (
	TypeConnected = "connected"
	TypeReload    = "reload"
)

// Event is the JSON message written to every client.
type Event struct {
	Type      string   `json:"type"`
	ID        string   `json:"id"`
	Changed   []string `json:"changed,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// NewEvent stamps an event with a fresh ID and the current time in milliseconds.
func NewEvent(eventType string, changed []string) Event {
	return Event{
		Type:      eventType,
		ID:        uuid.New().String(),
		Changed:   changed,
		Timestamp: time.Now().UnixMilli(),
	}
}

func (e Event) encode() ([]byte, error) {
	return json.Marshal(e)
}
