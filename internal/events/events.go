package events

import (
	"context"
	"strings"
	"sync"
	"time"

	"hotelops/pkg/model"

	"github.com/google/uuid"
)

const (
	TypeBookingCreated      = "booking.created"
	TypeBookingTransitioned = "booking.transitioned"
	TypeBookingDeleted      = "booking.deleted"
	TypeAlertRaised         = "inventory.alert_raised"

	SchemaVersion = "1"
)

// Event is a domain fact published after the transaction that produced it
// has committed.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	Actor      string    `json:"actor,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func (e Event) IsInventory() bool {
	return strings.HasPrefix(e.Type, "inventory.")
}

type BookingPayload struct {
	Booking        *model.Booking         `json:"booking"`
	PreviousStatus model.BookingStatus    `json:"previous_status,omitempty"`
	PreviousRoomID string                 `json:"previous_room_id,omitempty"`
	RoomStatus     model.RoomStatus       `json:"room_status,omitempty"`
	Inventory      *model.DeductionResult `json:"inventory,omitempty"`
}

func NewBookingEvent(eventType string, actor model.Actor, payload BookingPayload) Event {
	key := ""
	if payload.Booking != nil {
		key = payload.Booking.BookingID
	}
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		Key:        key,
		Actor:      actor.Label(),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

func NewAlertEvent(alert *model.InventoryAlert) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       TypeAlertRaised,
		Key:        alert.ItemID,
		OccurredAt: time.Now().UTC(),
		Payload:    alert,
	}
}

// Emitter publishes events on a best-effort basis. Implementations log and
// swallow delivery failures.
type Emitter interface {
	Emit(ctx context.Context, evt Event)
}

type nopEmitter struct{}

func NewNopEmitter() Emitter {
	return nopEmitter{}
}

func (nopEmitter) Emit(context.Context, Event) {}

// Recorder keeps emitted events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, evt Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, evt := range r.Events() {
		if evt.Type == eventType {
			out = append(out, evt)
		}
	}
	return out
}
