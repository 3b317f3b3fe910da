package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotelops/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func headerValue(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildAlertMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("towels").
		WithValue(map[string]any{"item_id": "towels", "level": 0}).
		WithEventType("inventory.alert_raised").
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return msg
}

func TestProducer_PublishRunsMiddlewareInOrder(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, nil, "alerts", "", logger.Discard())

	var order []string
	for _, name := range []string{"first", "second"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			order = append(order, name)
			if msg.Topic != "alerts" {
				t.Errorf("middleware saw topic %q", msg.Topic)
			}
			return next(ctx, msg)
		})
	}

	if err := p.Publish(context.Background(), buildAlertMessage(t)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("unexpected middleware order %v", order)
	}
	if len(w.messages) != 1 || string(w.messages[0].Key) != "towels" {
		t.Fatalf("unexpected written messages %+v", w.messages)
	}
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&recordingWriter{}, nil, "alerts", "", nil)

	if err := p.Publish(context.Background(), Message{Value: []byte("{}")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestProducer_FailedWriteGoesToDLQ(t *testing.T) {
	writeErr := errors.New("connection refused")
	w := &recordingWriter{err: writeErr}
	dlq := &recordingWriter{}
	p := newProducer(w, dlq, "alerts", "alerts.dlq", logger.Discard())

	msg := buildAlertMessage(t)
	err := p.Publish(context.Background(), msg)
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected one DLQ message, got %d", len(dlq.messages))
	}
	if got := headerValue(dlq.messages[0], HeaderOriginalTopic); got != "alerts" {
		t.Errorf("expected original topic header, got %q", got)
	}
	if _, ok := msg.Headers[HeaderDLQError]; ok {
		t.Error("caller's headers must not be mutated")
	}
}

func TestProducer_Closed(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, nil, "alerts", "", nil)
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
	if err := p.Publish(context.Background(), buildAlertMessage(t)); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}
}
