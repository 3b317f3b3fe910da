package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"hotelops/pkg/model"
)

const (
	bookingsPath   = "/api/v1/bookings"
	availablePath  = "/api/v1/rooms/available"
	deductionsPath = "/api/v1/inventory/deductions"

	defaultReadyWait = 10 * time.Second
)

// HotelClient wraps the bookings service API.
type HotelClient struct {
	httpClient *HttpClient
}

func NewHotelClient(baseURL string) *HotelClient {
	return &HotelClient{httpClient: NewHttpClient(baseURL)}
}

// As returns a client acting for the given user and role.
func (c *HotelClient) As(userID string, role model.Role) *HotelClient {
	return &HotelClient{httpClient: c.httpClient.As(userID, string(role))}
}

func bookingPath(id string) string {
	return bookingsPath + "/id/" + url.PathEscape(id)
}

func (c *HotelClient) CreateBooking(ctx context.Context, booking *model.Booking) (*Response, error) {
	return c.httpClient.POST(ctx, bookingsPath, booking)
}

func (c *HotelClient) CreateBookingRaw(ctx context.Context, rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw(ctx, bookingsPath, rawBody)
}

func (c *HotelClient) GetBooking(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, bookingPath(id))
}

func (c *HotelClient) Transition(ctx context.Context, id string, req model.TransitionRequest) (*Response, error) {
	return c.httpClient.PATCH(ctx, bookingPath(id)+"/status", req)
}

// CheckIn sends the command with an idempotency key so a retried request is
// answered from the first response.
func (c *HotelClient) CheckIn(ctx context.Context, id, idempotencyKey string) (*Response, error) {
	return c.command(ctx, bookingPath(id)+"/check-in", idempotencyKey)
}

func (c *HotelClient) CheckOut(ctx context.Context, id, idempotencyKey string) (*Response, error) {
	return c.command(ctx, bookingPath(id)+"/check-out", idempotencyKey)
}

func (c *HotelClient) command(ctx context.Context, path, idempotencyKey string) (*Response, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{headerIdempotencyKey: idempotencyKey}
	}
	return c.httpClient.requestRaw(ctx, http.MethodPost, path, nil, headers)
}

func (c *HotelClient) DeleteBooking(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, bookingPath(id))
}

func (c *HotelClient) AvailableRooms(ctx context.Context, checkIn, checkOut model.Date, guests int) (*Response, error) {
	q := url.Values{}
	q.Set("check_in", checkIn.String())
	q.Set("check_out", checkOut.String())
	if guests > 0 {
		q.Set("guests", strconv.Itoa(guests))
	}
	return c.httpClient.GET(ctx, availablePath+"?"+q.Encode())
}

func (c *HotelClient) DeductInventory(ctx context.Context, req model.DeductionRequest) (*Response, error) {
	return c.httpClient.POST(ctx, deductionsPath, req)
}

func (c *HotelClient) WaitForReady(ctx context.Context) error {
	return c.httpClient.WaitForHealthy(ctx, defaultReadyWait)
}

func DecodeTransition(resp *Response) (*model.TransitionResult, error) {
	var result model.TransitionResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func DecodeBooking(resp *Response) (*model.Booking, error) {
	var booking model.Booking
	if err := resp.DecodeData(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func DecodeRooms(resp *Response) ([]*model.Room, error) {
	var rooms []*model.Room
	if err := resp.DecodeData(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func DecodeDeduction(resp *Response) (*model.DeductionResult, error) {
	var result model.DeductionResult
	if err := resp.DecodeData(&result); err != nil {
		return nil, err
	}
	return &result, nil
}
