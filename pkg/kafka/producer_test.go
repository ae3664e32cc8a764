package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	"medassist/pkg/config"
	"medassist/pkg/logger"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("665f1c2a9b1e8a3d4c5b6a01").
		WithEventType("booking.created").
		WithValue(map[string]string{"booking_id": "abc"}).
		Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "medassist.bookings", "")

	if err := p.Publish(context.Background(), buildMessage(t)); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if len(w.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.messages))
	}
	got := w.messages[0]
	if string(got.Key) != "665f1c2a9b1e8a3d4c5b6a01" {
		t.Errorf("key = %s", got.Key)
	}
	if header(got, HeaderEventType) != "booking.created" {
		t.Errorf("event type header = %q", header(got, HeaderEventType))
	}
	if header(got, HeaderEventID) == "" {
		t.Error("expected generated event id")
	}
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "medassist.bookings", "")

	if err := p.Publish(context.Background(), Message{Value: []byte("{}")}); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("expected ErrEmptyKey, got %v", err)
	}
	if err := p.Publish(context.Background(), Message{Key: "k"}); !errors.Is(err, ErrEmptyValue) {
		t.Errorf("expected ErrEmptyValue, got %v", err)
	}
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, nil, "medassist.bookings", "")
	var calls []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(ctx context.Context, msg Message) error) error {
			calls = append(calls, name)
			if msg.Topic != "medassist.bookings" {
				t.Errorf("middleware saw topic %q", msg.Topic)
			}
			return next(ctx, msg)
		})
	}

	if err := p.Publish(context.Background(), buildMessage(t)); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "outer" || calls[1] != "inner" {
		t.Errorf("calls = %v", calls)
	}
}

func TestProducer_FailureGoesToDLQ(t *testing.T) {
	writeErr := errors.New("leader not available")
	dlq := &fakeWriter{}
	p := newProducer(&fakeWriter{err: writeErr}, dlq, "medassist.bookings", "medassist.bookings.dlq")

	err := p.Publish(context.Background(), buildMessage(t))

	if !errors.Is(err, writeErr) {
		t.Errorf("expected original error, got %v", err)
	}
	if len(dlq.messages) != 1 {
		t.Fatalf("expected 1 DLQ message, got %d", len(dlq.messages))
	}
	if header(dlq.messages[0], HeaderOriginalTopic) != "medassist.bookings" {
		t.Errorf("original topic header = %q", header(dlq.messages[0], HeaderOriginalTopic))
	}
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, nil, "medassist.bookings", "")

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
	if err := p.Publish(context.Background(), buildMessage(t)); !errors.Is(err, ErrProducerClosed) {
		t.Errorf("expected ErrProducerClosed, got %v", err)
	}
}

func TestNewProducer_Validation(t *testing.T) {
	if _, err := NewProducer(config.Kafka{}, "medassist.bookings", "", logger.Nop()); err == nil {
		t.Error("expected error without brokers")
	}
	if _, err := NewProducer(config.Kafka{Brokers: []string{"localhost:9092"}}, "", "", logger.Nop()); err == nil {
		t.Error("expected error without topic")
	}

	p, err := NewProducer(config.Kafka{Brokers: []string{"localhost:9092"}, ProducerMaxAttempts: 3}, "medassist.bookings", "", logger.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = p.Close()
}

func TestMessageBuilder_Validation(t *testing.T) {
	tests := []struct {
		name    string
		builder *MessageBuilder
		wantErr error
	}{
		{"missing key", NewMessage().WithEventType("booking.created").WithValue(1), ErrEmptyKey},
		{"missing value", NewMessage().WithKey("k").WithEventType("booking.created"), ErrEmptyValue},
		{"missing event type", NewMessage().WithKey("k").WithValue(1), ErrMissingEventType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.builder.Build(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	msg, err := NewMessage().
		WithKey("k").
		WithEventType("booking.created").
		WithCorrelationID("").
		WithValue(map[string]int{"n": 1}).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := msg.Headers[HeaderCorrelationID]; ok {
		t.Error("empty correlation id should not be set as a header")
	}
	if msg.GetEventID() == "" || msg.Headers[HeaderTimestamp] == "" {
		t.Errorf("expected event id and timestamp headers, got %v", msg.Headers)
	}
}
