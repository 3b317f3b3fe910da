package events

import (
	"context"

	"hotelops/pkg/kafka"
	"hotelops/pkg/logger"
)

// KafkaEmitter routes booking events and inventory events to their topics.
type KafkaEmitter struct {
	bookings kafka.Publisher
	alerts   kafka.Publisher
	source   string
	log      *logger.Logger
}

func NewKafkaEmitter(bookings, alerts kafka.Publisher, source string, log *logger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		bookings: bookings,
		alerts:   alerts,
		source:   source,
		log:      log,
	}
}

func (e *KafkaEmitter) Emit(ctx context.Context, evt Event) {
	publisher := e.bookings
	if evt.IsInventory() {
		publisher = e.alerts
	}

	msg, err := kafka.NewMessage().
		WithKey(evt.Key).
		WithValue(evt).
		WithEventID(evt.ID).
		WithEventType(evt.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(e.source).
		WithTimestamp(evt.OccurredAt).
		Build()
	if err != nil {
		e.log.Error("Failed to encode domain event", "event_type", evt.Type, "key", evt.Key, "error", err)
		return
	}

	if err := publisher.Publish(ctx, msg); err != nil {
		e.log.Warn("Failed to publish domain event",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"key", evt.Key,
			"error", err,
		)
	}
}

func (e *KafkaEmitter) Close() error {
	err := e.bookings.Close()
	if alertsErr := e.alerts.Close(); err == nil {
		err = alertsErr
	}
	return err
}
