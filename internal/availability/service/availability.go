package service

import (
	"context"

	bookingsrepo "hotelops/internal/bookings/repository"
	roomsrepo "hotelops/internal/rooms/repository"
	"hotelops/pkg/config"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/model"
)

type AvailabilityService interface {
	FindAvailableRooms(ctx context.Context, req model.AvailabilityRequest) ([]*model.Room, error)
}

type availabilityService struct {
	bookings bookingsrepo.BookingRepository
	rooms    roomsrepo.RoomRepository
	cfg      *config.Config
}

func NewAvailabilityService(bookings bookingsrepo.BookingRepository, rooms roomsrepo.RoomRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		bookings: bookings,
		rooms:    rooms,
		cfg:      cfg,
	}
}

// FindAvailableRooms lists rooms that fit minGuests and have no pending,
// confirmed or checked-in booking overlapping [CheckIn, CheckOut).
func (s *availabilityService) FindAvailableRooms(ctx context.Context, req model.AvailabilityRequest) ([]*model.Room, error) {
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, apperrors.InvalidInput("check_in and check_out are required")
	}
	if !req.Stay().Valid() {
		return nil, apperrors.InvalidInput("check_out must be after check_in")
	}
	if req.MinGuests < 0 {
		return nil, apperrors.InvalidInput("guests cannot be negative")
	}
	if req.MinGuests == 0 {
		req.MinGuests = 1
	}

	blocked, err := s.bookings.FindBlockingRoomIDs(ctx, req.Stay())
	if err != nil {
		s.cfg.Log.Error("Failed to load overlapping bookings", "check_in", req.CheckIn, "check_out", req.CheckOut, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	rooms, err := s.rooms.FindAvailable(ctx, req.MinGuests, blocked)
	if err != nil {
		s.cfg.Log.Error("Failed to load candidate rooms", "guests", req.MinGuests, "error", err)
		return nil, apperrors.Internal("Failed to check availability", err)
	}

	s.cfg.Log.Debug("Availability query completed",
		"check_in", req.CheckIn,
		"check_out", req.CheckOut,
		"guests", req.MinGuests,
		"blocked_rooms", len(blocked),
		"available_rooms", len(rooms),
	)
	return rooms, nil
}
