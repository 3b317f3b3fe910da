package model

import "github.com/shopspring/decimal"

type Room struct {
	ID     string          `json:"id,omitempty" bson:"_id,omitempty"`
	Number string          `json:"number" bson:"number"`
	Guests int             `json:"guests" bson:"guests"`
	Price  decimal.Decimal `json:"price" bson:"price"`
	Status RoomStatus      `json:"status" bson:"status"`
}

type AvailabilityRequest struct {
	CheckIn   Date `json:"check_in"`
	CheckOut  Date `json:"check_out"`
	MinGuests int  `json:"guests"`
}

func (r AvailabilityRequest) Stay() DateRange {
	return DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}
