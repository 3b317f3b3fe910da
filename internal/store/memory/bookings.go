package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	bookingserrors "hotelops/internal/bookings/errors"
	"hotelops/internal/bookings/repository"
	"hotelops/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type bookingRepository struct {
	store *Store
}

func (s *Store) Bookings() repository.BookingRepository {
	return &bookingRepository{store: s}
}

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return r.store.write(ctx, func(d *data) error {
		if _, exists := d.bookings[booking.BookingID]; exists {
			return fmt.Errorf("%w: %s", bookingserrors.ErrDuplicateBookingID, booking.BookingID)
		}
		now := time.Now().UTC().Truncate(time.Millisecond)
		booking.ID = primitive.NewObjectID().Hex()
		booking.CreatedAt = now
		booking.UpdatedAt = now
		d.bookings[booking.BookingID] = *booking
		return nil
	})
}

func (r *bookingRepository) FindByBookingID(ctx context.Context, bookingID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.store.read(ctx, func(d *data) error {
		found, ok := d.bookings[bookingID]
		if !ok {
			return bookingserrors.ErrNotFound
		}
		booking = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatusAndRoom(ctx context.Context, bookingID string, from, to model.BookingStatus, roomID string) (*model.Booking, error) {
	var booking model.Booking
	err := r.store.write(ctx, func(d *data) error {
		found, ok := d.bookings[bookingID]
		if !ok {
			return bookingserrors.ErrNotFound
		}
		if found.Status != from {
			return bookingserrors.ErrStaleStatus
		}
		found.Status = to
		found.RoomID = roomID
		found.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		d.bookings[bookingID] = found
		booking = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) DeleteByBookingID(ctx context.Context, bookingID string) error {
	return r.store.write(ctx, func(d *data) error {
		if _, ok := d.bookings[bookingID]; !ok {
			return bookingserrors.ErrNotFound
		}
		delete(d.bookings, bookingID)
		return nil
	})
}

func (r *bookingRepository) FindBlockingRoomIDs(ctx context.Context, stay model.DateRange) ([]string, error) {
	seen := map[string]struct{}{}
	err := r.store.read(ctx, func(d *data) error {
		for _, b := range d.bookings {
			if !b.Status.BlocksAvailability() {
				continue
			}
			if b.Stay().Overlaps(stay) {
				seen[b.RoomID] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	roomIDs := make([]string, 0, len(seen))
	for id := range seen {
		roomIDs = append(roomIDs, id)
	}
	sort.Strings(roomIDs)
	return roomIDs, nil
}
