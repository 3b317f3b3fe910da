//go:build integration

package integrationtests

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"

	"hotelops/pkg/client"
	"hotelops/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests run against a bookings service started with the demo fixtures
// (STORE_BACKEND=memory) or a Mongo database seeded with the same rooms.

const defaultServerURL = "http://localhost:8080"

func newAPI(t *testing.T) *client.HotelClient {
	t.Helper()
	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	api := client.NewHotelClient(serverURL)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	require.NoError(t, api.WaitForReady(ctx), "bookings service is not reachable at %s", serverURL)
	return api
}

func uniqueBookingID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// farDate spreads runs across the calendar so repeated runs on a long lived
// service do not collide on availability.
func farDate(offsetDays int) model.Date {
	base := time.Now().UTC().AddDate(1, 0, offsetDays)
	return model.DateOf(base)
}

func TestConcurrentCheckInDeductsOnce(t *testing.T) {
	ctx := context.Background()
	desk := newAPI(t).As("clerk-int", model.RoleReceptionist)

	bookingID := uniqueBookingID("INT-CI")
	resp, err := desk.CreateBooking(ctx, &model.Booking{
		BookingID:  bookingID,
		RoomID:     "R-301",
		GuestName:  "Integration Guest",
		GuestEmail: "integration@example.com",
		CheckIn:    farDate(0),
		CheckOut:   farDate(2),
		Guests:     2,
		Status:     model.BookingConfirmed,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = make(map[int]int)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := desk.CheckIn(ctx, bookingID, "")
			if err != nil {
				t.Errorf("check-in request failed: %v", err)
				return
			}
			mu.Lock()
			statuses[resp.StatusCode]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, statuses[http.StatusOK], "exactly one check-in wins: %v", statuses)
	assert.Equal(t, workers-1, statuses[http.StatusConflict], "the rest conflict: %v", statuses)

	resp, err = desk.CheckOut(ctx, bookingID, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode, client.GetErrorMessage(resp))
}

func TestOverlappingStayIsNotAvailable(t *testing.T) {
	ctx := context.Background()
	desk := newAPI(t).As("clerk-int", model.RoleReceptionist)

	bookingID := uniqueBookingID("INT-AV")
	checkIn, checkOut := farDate(30), farDate(33)
	resp, err := desk.CreateBooking(ctx, &model.Booking{
		BookingID:  bookingID,
		RoomID:     "R-102",
		GuestName:  "Overlap Guest",
		GuestPhone: "+14155550123",
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		Guests:     1,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, client.GetErrorMessage(resp))
	t.Cleanup(func() {
		_, _ = newAPI(t).As("mgr-int", model.RoleManager).DeleteBooking(context.Background(), bookingID)
	})

	tests := []struct {
		name     string
		from, to model.Date
		wantRoom bool
	}{
		{"overlapping", farDate(31), farDate(35), false},
		{"ends on check-in day", farDate(28), checkIn, true},
		{"starts on check-out day", checkOut, farDate(36), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := desk.AvailableRooms(ctx, tt.from, tt.to, 1)
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			rooms, err := client.DecodeRooms(resp)
			require.NoError(t, err)

			found := false
			for _, r := range rooms {
				if r.ID == "R-102" {
					found = true
				}
			}
			assert.Equal(t, tt.wantRoom, found)
		})
	}
}
