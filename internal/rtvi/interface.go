// internal/rtvi/interface.go
package rtvi

import "github.com/rusenback/botmon/internal/model"

// EventSource is what an observer needs from a client: subscribing to events
// and asking which tracks are available. Mocked in tests.
type EventSource interface {
	// Subscribe registers h for event. The returned func removes it and is
	// safe to call more than once.
	Subscribe(event Event, h Handler) (unsubscribe func())
	Tracks() model.Tracks
}

// Make sure Client implements the interface
var _ EventSource = (*Client)(nil)
