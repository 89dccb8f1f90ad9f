// Package eventbus provides event-driven communication infrastructure for the app builder.
package eventbus

import (
	"context"

	"github.com/agp-labs/builder/pkg/events"
)

// Event is anything the builder emits on its bus: app lifecycle changes,
// component placements, connection edits.
type Event interface {
	GetType() events.EventType
}

// EventPublisher publishes an event keyed by app ID, so consumers can
// partition per app.
type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

// EventSubscriber registers handlers per event type and then consumes until
// the context is canceled.
type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event interface{}) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}
