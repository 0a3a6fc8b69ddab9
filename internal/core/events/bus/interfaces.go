package bus

import "time"

// EventBus is a synchronous in-process pub/sub bus.
//
// Handlers subscribe by Event.Type() and are called in the publisher's
// goroutine, in subscription order. Handler errors are joined and returned
// from Publish. All methods are safe for concurrent use.
type EventBus interface {
	// Publish delivers event to every active subscriber of its type.
	Publish(event Event) error
	// PublishBatch publishes events in order and joins their errors.
	PublishBatch(events ...Event) error
	// Subscribe registers handler for eventType.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil subscription is a no-op.
	Unsubscribe(sub Subscription) error
	// Subscribers returns the number of active handlers for eventType.
	Subscribers(eventType string) int
	// GetMetrics returns a snapshot of the delivery counters.
	GetMetrics() Metrics
}

// Event is an immutable message transported by the bus.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
}

type (
	EventHandler func(event Event) error
)

// Subscription is a registered handler bound to one event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Metrics are cumulative delivery counters.
type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
}
