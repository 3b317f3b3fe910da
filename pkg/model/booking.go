package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         string          `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID  string          `json:"booking_id" bson:"booking_id" validate:"required,min=3,max=64"`
	RoomID     string          `json:"room_id" bson:"room_id" validate:"required"`
	GuestName  string          `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail string          `json:"guest_email,omitempty" bson:"guest_email,omitempty" validate:"omitempty,email,max=254"`
	GuestPhone string          `json:"guest_phone,omitempty" bson:"guest_phone,omitempty" validate:"omitempty,e164"`
	CheckIn    Date            `json:"check_in" bson:"check_in"`
	CheckOut   Date            `json:"check_out" bson:"check_out"`
	Guests     int             `json:"guests" bson:"guests" validate:"required,min=1,max=50"`
	TotalPrice decimal.Decimal `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status     BookingStatus   `json:"status" bson:"status" validate:"required,booking_status"`
	CreatedBy  string          `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" bson:"updated_at"`
}

func (b *Booking) Stay() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}

// TransitionRequest changes a booking's status, its room, or both.
type TransitionRequest struct {
	BookingID string         `json:"-"`
	NewStatus *BookingStatus `json:"status,omitempty"`
	NewRoomID *string        `json:"room_id,omitempty"`
}

type TransitionResult struct {
	Booking        *Booking         `json:"booking"`
	PreviousStatus BookingStatus    `json:"previous_status,omitempty"`
	RoomStatus     RoomStatus       `json:"room_status,omitempty"`
	Inventory      *DeductionResult `json:"inventory,omitempty"`
	Warnings       []string         `json:"warnings,omitempty"`
	Message        string           `json:"message"`
	NoOp           bool             `json:"no_op,omitempty"`
}
