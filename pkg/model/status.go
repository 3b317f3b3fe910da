package model

import "fmt"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingApproved  BookingStatus = "approved"
	BookingCheckedIn BookingStatus = "checked_in"
	BookingCompleted BookingStatus = "completed"
	BookingDeclined  BookingStatus = "declined"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingApproved,
	BookingCheckedIn,
	BookingCompleted,
	BookingDeclined,
	BookingCancelled,
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range BookingStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func (s BookingStatus) Valid() bool {
	_, err := ParseBookingStatus(string(s))
	return err == nil
}

// IsOccupying reports whether the room is in use and its supplies consumed.
func (s BookingStatus) IsOccupying() bool {
	switch s {
	case BookingConfirmed, BookingApproved, BookingCheckedIn:
		return true
	}
	return false
}

// BlocksAvailability reports whether a booking in this status removes its
// room from availability results for overlapping dates.
func (s BookingStatus) BlocksAvailability() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingCompleted, BookingDeclined, BookingCancelled:
		return true
	}
	return false
}

// ReleasesRoom reports whether entering this status frees the assigned room.
func (s BookingStatus) ReleasesRoom() bool {
	return s == BookingDeclined || s == BookingCancelled
}

// ReleasesRoomOnDelete reports whether deleting a booking in this status
// puts its room back to available.
func (s BookingStatus) ReleasesRoomOnDelete() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

// AvailabilityBlockingStatuses is the status set used by availability filters.
func AvailabilityBlockingStatuses() []BookingStatus {
	var out []BookingStatus
	for _, st := range BookingStatuses {
		if st.BlocksAvailability() {
			out = append(out, st)
		}
	}
	return out
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomBooked      RoomStatus = "booked"
	RoomMaintenance RoomStatus = "maintenance"
	RoomUnavailable RoomStatus = "unavailable"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomBooked, RoomMaintenance, RoomUnavailable:
		return true
	}
	return false
}
