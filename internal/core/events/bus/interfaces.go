package bus

// EventBus is an in-process pub/sub bus for engine events.
//
// Key characteristics:
// - Type-based fan-out: handlers subscribe by Event.Type() string.
// - Synchronous delivery in the publisher's goroutine, in subscription order.
// - Handler errors are joined and returned from Publish.
// - Metrics are collected only while at least one observer is registered.
//
// All methods are safe for concurrent use. Handlers run without the bus lock
// held and may subscribe or cancel from inside a delivery.
type EventBus interface {
	// Publish delivers the event to subscribers of event.Type().
	Publish(event Event) error

	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels sub. A nil sub is a no-op.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	GetMetrics() Metrics
}

// Event is an immutable message. Tick is the simulation step that produced
// it, so consumers can order events without wall-clock time.
type Event interface {
	Type() string
	Source() string
	Tick() uint64
	Data() any
}

// EventHandler is invoked per delivered event.
type EventHandler func(event Event) error

// Subscription is a handle to a registered handler.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

// Observer is notified around every delivery.
type Observer interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error)
}

type Metrics struct {
	Published         uint64 `json:"published"`
	DeliveredHandlers uint64 `json:"delivered_handlers"`
	Errors            uint64 `json:"errors"`
	SubscribersActive uint64 `json:"subscribers_active"`
}
