package kafka

import (
	"errors"
	"math"
	"testing"
)

func TestMessageBuilder_Build(t *testing.T) {
	msg, err := NewMessage().
		WithKey("BK-100").
		WithValue(map[string]string{"status": "checked_in"}).
		WithEventType("booking.transitioned").
		WithSource("bookings").
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Key != "BK-100" {
		t.Errorf("unexpected key %s", msg.Key)
	}
	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.GetEventType() != "booking.transitioned" {
		t.Errorf("unexpected event type %s", msg.GetEventType())
	}
	if _, ok := msg.GetHeader(HeaderTimestamp); !ok {
		t.Error("expected timestamp header")
	}

	var payload map[string]string
	if err := msg.DecodeValue(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["status"] != "checked_in" {
		t.Errorf("unexpected payload %v", payload)
	}
}

func TestMessageBuilder_EncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(math.Inf(1)).Build()
	if err == nil {
		t.Fatal("expected encoding error")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	if got := msg.GetRetryCount(); got != 12 {
		t.Errorf("expected 12 retries, got %d", got)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		retries int
		want    bool
	}{
		{"nil error", nil, 0, false},
		{"transient", errors.New("dial tcp: i/o timeout"), 0, true},
		{"transient exhausted", errors.New("connection refused"), 3, false},
		{"permanent", NewPermanentError("bad payload", errors.New("deserialization failed")), 0, false},
		{"explicit transient", NewTransientError("store busy", nil), 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err, tt.retries, 3); got != tt.want {
				t.Errorf("ShouldRetry() = %v, want %v", got, tt.want)
			}
		})
	}
}
