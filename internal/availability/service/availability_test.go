package service

import (
	"context"
	"errors"
	"testing"

	bookingsrepo "hotelops/internal/bookings/repository"
	"hotelops/internal/store/memory"
	"hotelops/pkg/config"
	apperrors "hotelops/pkg/errors"
	"hotelops/pkg/logger"
	"hotelops/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func june(day int) model.Date {
	return model.NewDate(2026, 6, day)
}

func seed(t *testing.T) (*memory.Store, AvailabilityService) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	require.NoError(t, store.Load(ctx, memory.Fixtures{
		Rooms: []model.Room{
			{ID: "R-1", Guests: 2, Price: decimal.NewFromInt(100)},
			{ID: "R-2", Guests: 2, Price: decimal.NewFromInt(100)},
			{ID: "R-3", Guests: 4, Price: decimal.NewFromInt(150)},
			{ID: "R-4", Guests: 4, Price: decimal.NewFromInt(80), Status: model.RoomMaintenance},
			{ID: "R-5", Guests: 1, Price: decimal.NewFromInt(60)},
		},
	}))

	bookings := []model.Booking{
		{BookingID: "A", RoomID: "R-1", Status: model.BookingConfirmed, CheckIn: june(10), CheckOut: june(12)},
		{BookingID: "B", RoomID: "R-2", Status: model.BookingCancelled, CheckIn: june(10), CheckOut: june(12)},
		{BookingID: "C", RoomID: "R-3", Status: model.BookingCompleted, CheckIn: june(9), CheckOut: june(11)},
	}
	for i := range bookings {
		require.NoError(t, store.Bookings().Create(ctx, &bookings[i]))
	}

	return store, NewAvailabilityService(store.Bookings(), store.Rooms(), &config.Config{Log: logger.Discard()})
}

func ids(rooms []*model.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func TestFindAvailableRooms(t *testing.T) {
	_, svc := seed(t)

	tests := []struct {
		name string
		req  model.AvailabilityRequest
		want []string
	}{
		{
			name: "overlapping confirmed booking excludes room",
			req:  model.AvailabilityRequest{CheckIn: june(11), CheckOut: june(13), MinGuests: 2},
			want: []string{"R-2", "R-3"},
		},
		{
			name: "back-to-back stay after existing does not overlap",
			req:  model.AvailabilityRequest{CheckIn: june(12), CheckOut: june(14), MinGuests: 2},
			want: []string{"R-2", "R-1", "R-3"},
		},
		{
			name: "back-to-back stay before existing does not overlap",
			req:  model.AvailabilityRequest{CheckIn: june(8), CheckOut: june(10), MinGuests: 2},
			want: []string{"R-2", "R-1", "R-3"},
		},
		{
			name: "enclosing stay overlaps",
			req:  model.AvailabilityRequest{CheckIn: june(9), CheckOut: june(13), MinGuests: 2},
			want: []string{"R-2", "R-3"},
		},
		{
			name: "zero guests defaults to one",
			req:  model.AvailabilityRequest{CheckIn: june(20), CheckOut: june(21)},
			want: []string{"R-5", "R-2", "R-1", "R-3"},
		},
		{
			name: "capacity filter",
			req:  model.AvailabilityRequest{CheckIn: june(20), CheckOut: june(21), MinGuests: 3},
			want: []string{"R-3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := svc.FindAvailableRooms(context.Background(), tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.want, ids(rooms))
		})
	}
}

func TestFindAvailableRooms_PendingAndCheckedInBlock(t *testing.T) {
	store, svc := seed(t)
	ctx := context.Background()

	require.NoError(t, store.Bookings().Create(ctx, &model.Booking{
		BookingID: "D", RoomID: "R-2", Status: model.BookingPending, CheckIn: june(15), CheckOut: june(16),
	}))
	require.NoError(t, store.Bookings().Create(ctx, &model.Booking{
		BookingID: "E", RoomID: "R-3", Status: model.BookingCheckedIn, CheckIn: june(14), CheckOut: june(17),
	}))

	rooms, err := svc.FindAvailableRooms(ctx, model.AvailabilityRequest{CheckIn: june(15), CheckOut: june(16), MinGuests: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"R-1"}, ids(rooms))
}

func TestFindAvailableRooms_OverlapShapes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Load(ctx, memory.Fixtures{
		Rooms: []model.Room{{ID: "R-1", Guests: 2, Price: decimal.NewFromInt(100)}},
	}))
	require.NoError(t, store.Bookings().Create(ctx, &model.Booking{
		BookingID: "MAY", RoomID: "R-1", Status: model.BookingConfirmed,
		CheckIn: model.NewDate(2024, 5, 10), CheckOut: model.NewDate(2024, 5, 15),
	}))
	svc := NewAvailabilityService(store.Bookings(), store.Rooms(), &config.Config{Log: logger.Discard()})

	may := func(day int) model.Date { return model.NewDate(2024, 5, day) }
	tests := []struct {
		name     string
		from, to int
		want     int
	}{
		{"contained", 12, 14, 0},
		{"tail overlap", 14, 20, 0},
		{"head overlap", 5, 11, 0},
		{"starts on checkout day", 15, 20, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := svc.FindAvailableRooms(ctx, model.AvailabilityRequest{CheckIn: may(tt.from), CheckOut: may(tt.to), MinGuests: 1})
			require.NoError(t, err)
			require.Len(t, rooms, tt.want)
		})
	}
}

func TestFindAvailableRooms_InvalidInput(t *testing.T) {
	_, svc := seed(t)

	tests := []struct {
		name string
		req  model.AvailabilityRequest
	}{
		{"same day", model.AvailabilityRequest{CheckIn: june(10), CheckOut: june(10)}},
		{"reversed", model.AvailabilityRequest{CheckIn: june(12), CheckOut: june(10)}},
		{"missing dates", model.AvailabilityRequest{}},
		{"negative guests", model.AvailabilityRequest{CheckIn: june(10), CheckOut: june(11), MinGuests: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.FindAvailableRooms(context.Background(), tt.req)
			require.True(t, apperrors.HasCode(err, apperrors.CodeInvalidInput), "got %v", err)
		})
	}
}

type erroringBookings struct {
	bookingsrepo.BookingRepository
}

func (erroringBookings) FindBlockingRoomIDs(context.Context, model.DateRange) ([]string, error) {
	return nil, errors.New("connection reset")
}

func TestFindAvailableRooms_StoreError(t *testing.T) {
	store, _ := seed(t)
	svc := NewAvailabilityService(erroringBookings{store.Bookings()}, store.Rooms(), &config.Config{Log: logger.Discard()})

	_, err := svc.FindAvailableRooms(context.Background(), model.AvailabilityRequest{CheckIn: june(1), CheckOut: june(2)})
	require.True(t, apperrors.HasCode(err, apperrors.CodeInternal), "got %v", err)
}
