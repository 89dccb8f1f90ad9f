package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/agp-labs/builder/pkg/events"
	"github.com/agp-labs/builder/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
	tracer        trace.Tracer
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

// SetTracer enables a consume span per handled message.
func (eb *WatermillEventBus) SetTracer(tracer trace.Tracer) {
	eb.tracer = tracer
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var event any

			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := eb.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			switch eventType {
			case events.AppCreatedEventType:
				event = &events.AppCreated{}
			case events.AppUpdatedEventType:
				event = &events.AppUpdated{}
			case events.AppDeletedEventType:
				event = &events.AppDeleted{}
			case events.AppPublishedEventType:
				event = &events.AppPublished{}
			case events.AppUnpublishedEventType:
				event = &events.AppUnpublished{}
			case events.DraftCreatedEventType:
				event = &events.DraftCreated{}
			case events.ComponentCreatedEventType:
				event = &events.ComponentCreated{}
			case events.ComponentUpdatedEventType:
				event = &events.ComponentUpdated{}
			case events.ComponentMovedEventType:
				event = &events.ComponentMoved{}
			case events.ComponentDeletedEventType:
				event = &events.ComponentDeleted{}
			case events.ConnectionCreatedEventType:
				event = &events.ConnectionCreated{}
			case events.ConnectionDeletedEventType:
				event = &events.ConnectionDeleted{}
			default:
				msg.Nack()

				continue
			}

			err := json.Unmarshal(msg.Payload, event)
			if err != nil {
				msg.Nack()

				continue
			}

			handlerCtx := ctx

			var span trace.Span

			if eb.tracer != nil {
				handlerCtx, span = otelhelper.StartSpan(ctx, eb.tracer, "eventbus.consume",
					attribute.String("event.type", string(eventType)),
					attribute.String(otelhelper.EventIDKey, msg.Metadata.Get(events.EventMetadataKey)),
				)
			}

			err = handler(handlerCtx, event)
			if err != nil {
				if span != nil {
					otelhelper.SetError(span, err)
					span.End()
				}

				msg.Nack()

				continue
			}

			if span != nil {
				span.End()
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) Close() error {
	err := eb.publisher.Close()
	if err != nil {
		return err
	}

	return eb.subscriber.Close()
}
