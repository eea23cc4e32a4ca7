// internal/pkg/notify/notify.go
package notify

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EventType identifies the kind of state change being reported
type EventType string

const (
	EventCatalogLoaded     EventType = "catalog.loaded"
	EventCatalogLoadFailed EventType = "catalog.load_failed"
	EventCartChanged       EventType = "cart.changed"
	EventCheckoutOpened    EventType = "checkout.opened"
	EventCheckoutClosed    EventType = "checkout.closed"
	EventOrderPlaced       EventType = "order.placed"
)

// Event carries a state change to the presentation layer. The payload
// contains enough data to re-render without querying the core again.
type Event struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id,omitempty"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	At        time.Time              `json:"at"`
}

// Notifier receives events after each state transition
type Notifier interface {
	Publish(event Event)
}

// LogNotifier writes events to the structured log. It stands in for the
// rendering layer, which subscribes the same way.
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a notifier backed by the given logger
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Publish logs the event with its payload as structured fields
func (n *LogNotifier) Publish(event Event) {
	entry := n.logger.WithFields(logrus.Fields{
		"event":      string(event.Type),
		"session_id": event.SessionID,
		"at":         event.At.Format(time.RFC3339),
	})
	for k, v := range event.Payload {
		entry = entry.WithField(k, v)
	}

	if event.Type == EventCatalogLoadFailed {
		entry.Warn("storefront event")
		return
	}
	entry.Info("storefront event")
}

// NopNotifier discards all events
type NopNotifier struct{}

// Publish implements Notifier
func (NopNotifier) Publish(Event) {}
