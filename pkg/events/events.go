// Package events defines event types and structures for app builder lifecycle notifications.
package events

import (
	"time"
)

type EventType string

// Kafka topics.
const Topic = "builder.events" // Topic for builder lifecycle events

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// App lifecycle events.
	AppCreatedEventType     EventType = "app.created"
	AppUpdatedEventType     EventType = "app.updated"
	AppDeletedEventType     EventType = "app.deleted"
	AppPublishedEventType   EventType = "app.published"
	AppUnpublishedEventType EventType = "app.unpublished"
	DraftCreatedEventType   EventType = "app.draft.created"

	// Canvas component events.
	ComponentCreatedEventType EventType = "component.created"
	ComponentUpdatedEventType EventType = "component.updated"
	ComponentMovedEventType   EventType = "component.moved"
	ComponentDeletedEventType EventType = "component.deleted"

	// Workflow connection events.
	ConnectionCreatedEventType EventType = "connection.created"
	ConnectionDeletedEventType EventType = "connection.deleted"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	AppID     string         `json:"app_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent creates a BaseEvent for an app with the current timestamp. The
// event ID is assigned by the bus on publish.
func NewBaseEvent(eventType EventType, appID string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AppID:     appID,
	}
}
