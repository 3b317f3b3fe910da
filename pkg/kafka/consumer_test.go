package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type scriptedReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		m := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *scriptedReader) Close() error {
	r.closed = true
	return nil
}

func alertRecord(key string) kafka.Message {
	return kafka.Message{
		Topic: "alerts",
		Key:   []byte(key),
		Value: []byte(`{"item_id":"` + key + `"}`),
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte("inventory.alert_raised")},
		},
	}
}

func runUntilDrained(t *testing.T, c *Consumer, r *scriptedReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		r.mu.Lock()
		n := len(r.committed)
		r.mu.Unlock()
		if n >= want {
			break
		}
		select {
		case <-deadline:
			cancel()
			t.Fatalf("timed out waiting for %d commits, got %d", want, n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestConsumer_ProcessesAndCommits(t *testing.T) {
	r := &scriptedReader{messages: []kafka.Message{alertRecord("towels"), alertRecord("soap")}}

	var mu sync.Mutex
	var seen []string
	handler := func(_ context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg.Key)
		if msg.GetEventType() != "inventory.alert_raised" {
			t.Errorf("headers not decoded: %v", msg.Headers)
		}
		return nil
	}

	c := newConsumer(r, nil, "alerts", "notifier", "", 3, handler, nil)
	runUntilDrained(t, c, r, 2)

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "towels" || seen[1] != "soap" {
		t.Errorf("unexpected processing order %v", seen)
	}
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	r := &scriptedReader{messages: []kafka.Message{alertRecord("towels")}}

	attempts := 0
	handler := func(_ context.Context, _ Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("store unavailable", nil)
		}
		return nil
	}

	c := newConsumer(r, nil, "alerts", "notifier", "", 3, handler, nil)
	runUntilDrained(t, c, r, 1)

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestConsumer_PermanentFailureGoesToDLQ(t *testing.T) {
	r := &scriptedReader{messages: []kafka.Message{alertRecord("towels")}}
	dlq := &recordingWriter{}

	attempts := 0
	handler := func(_ context.Context, _ Message) error {
		attempts++
		return NewPermanentError("bad payload", nil)
	}

	c := newConsumer(r, dlq, "alerts", "notifier", "alerts.dlq", 3, handler, nil)
	runUntilDrained(t, c, r, 1)

	if attempts != 1 {
		t.Errorf("permanent errors must not be retried, got %d attempts", attempts)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected one DLQ message, got %d", len(dlq.messages))
	}
	if got := headerValue(dlq.messages[0], HeaderDLQGroup); got != "notifier" {
		t.Errorf("expected consumer group header, got %q", got)
	}
}

func TestConsumer_Closed(t *testing.T) {
	r := &scriptedReader{}
	c := newConsumer(r, nil, "alerts", "notifier", "", 0, func(context.Context, Message) error { return nil }, nil)
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !r.closed {
		t.Error("expected reader to be closed")
	}
	if err := c.Start(context.Background()); !errors.Is(err, ErrConsumerClosed) {
		t.Errorf("expected ErrConsumerClosed, got %v", err)
	}
}
