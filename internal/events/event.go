package events

import "time"

// Type names an event kind.
type Type string

const (
	InstallationsReload Type = "installations.reload"
	AreasReload         Type = "areas.reload"
)

// Event tells subscribers that stored data changed and views should refetch.
type Event struct {
	Type   Type      `json:"type"`
	ID     string    `json:"id,omitempty"`
	Region string    `json:"region,omitempty"`
	At     time.Time `json:"at"`
}

// Publisher accepts events for fan-out.
type Publisher interface {
	Publish(Event)
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
