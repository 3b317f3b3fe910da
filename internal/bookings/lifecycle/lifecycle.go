// Package lifecycle holds the booking status transition table and the role
// rules consulted before a transition is applied.
package lifecycle

import "hotelops/pkg/model"

var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingConfirmed, model.BookingApproved, model.BookingDeclined, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingCheckedIn, model.BookingDeclined, model.BookingCancelled},
	model.BookingApproved:  {model.BookingCheckedIn, model.BookingDeclined, model.BookingCancelled},
	model.BookingCheckedIn: {model.BookingCompleted},
	model.BookingCompleted: nil,
	model.BookingDeclined:  nil,
	model.BookingCancelled: nil,
}

func Next(from model.BookingStatus) []model.BookingStatus {
	return transitions[from]
}

func CanTransition(from, to model.BookingStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanCheckIn also accepts pending so a guest can be checked in at the desk
// without a separate confirmation step.
func CanCheckIn(from model.BookingStatus) bool {
	return from == model.BookingPending || CanTransition(from, model.BookingCheckedIn)
}

func CanCheckOut(from model.BookingStatus) bool {
	return CanTransition(from, model.BookingCompleted)
}

// CanPerform reports whether actor may move a booking into status to.
// Staff may drive every transition; guests may only cancel.
func CanPerform(actor model.Actor, to model.BookingStatus) bool {
	if actor.IsStaff() {
		return true
	}
	return actor.Role == model.RoleGuest && to == model.BookingCancelled
}

// CanCreate reports whether actor may open a booking in status initial.
// Guests can only request pending bookings; walk-ins need staff.
func CanCreate(actor model.Actor, initial model.BookingStatus) bool {
	if actor.IsStaff() {
		return true
	}
	return actor.Role == model.RoleGuest && initial == model.BookingPending
}

func CanReassignRoom(actor model.Actor) bool {
	return actor.IsStaff()
}

func CanDelete(actor model.Actor) bool {
	return actor.CanDelete()
}

// EntersOccupancy reports whether moving from prev to next starts an
// occupancy episode, which is when room supplies are deducted.
func EntersOccupancy(prev, next model.BookingStatus) bool {
	return next.IsOccupying() && !prev.IsOccupying()
}
