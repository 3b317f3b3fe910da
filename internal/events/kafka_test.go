package events

import (
	"context"
	"errors"
	"testing"

	"hotelops/pkg/kafka"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"
)

type fakePublisher struct {
	messages []kafka.Message
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, msg kafka.Message) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func TestKafkaEmitter_RoutesByEventType(t *testing.T) {
	bookings := &fakePublisher{}
	alerts := &fakePublisher{}
	emitter := NewKafkaEmitter(bookings, alerts, "bookings", logger.Discard())

	booking := &model.Booking{BookingID: "BK-7", Status: model.BookingCheckedIn}
	emitter.Emit(context.Background(), NewBookingEvent(TypeBookingCreated, model.SystemActor, BookingPayload{Booking: booking}))
	emitter.Emit(context.Background(), NewAlertEvent(&model.InventoryAlert{ItemID: "towels", Type: model.AlertOutOfStock}))

	if len(bookings.messages) != 1 || bookings.messages[0].Key != "BK-7" {
		t.Fatalf("expected booking event keyed by booking id, got %+v", bookings.messages)
	}
	if got := bookings.messages[0].GetEventType(); got != TypeBookingCreated {
		t.Errorf("unexpected event type header %s", got)
	}
	if len(alerts.messages) != 1 || alerts.messages[0].Key != "towels" {
		t.Fatalf("expected alert event keyed by item id, got %+v", alerts.messages)
	}

	var decoded Event
	if err := alerts.messages[0].DecodeValue(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != TypeAlertRaised {
		t.Errorf("unexpected decoded type %s", decoded.Type)
	}
}

func TestKafkaEmitter_SwallowsPublishErrors(t *testing.T) {
	bookings := &fakePublisher{err: errors.New("broker unavailable")}
	emitter := NewKafkaEmitter(bookings, &fakePublisher{}, "bookings", logger.Discard())

	emitter.Emit(context.Background(), NewBookingEvent(TypeBookingDeleted, model.SystemActor, BookingPayload{
		Booking: &model.Booking{BookingID: "BK-8"},
	}))
}

func TestRecorder_OfType(t *testing.T) {
	r := NewRecorder()
	r.Emit(context.Background(), Event{Type: TypeBookingCreated})
	r.Emit(context.Background(), Event{Type: TypeAlertRaised})
	r.Emit(context.Background(), Event{Type: TypeAlertRaised})

	if got := len(r.OfType(TypeAlertRaised)); got != 2 {
		t.Errorf("expected 2 alert events, got %d", got)
	}
}
