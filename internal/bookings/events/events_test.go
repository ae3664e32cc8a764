package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"medassist/pkg/kafka"
	"medassist/pkg/model"
)

type capturingProducer struct {
	messages []kafka.Message
	err      error
}

func (c *capturingProducer) Publish(ctx context.Context, msg kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.messages = append(c.messages, msg)
	return nil
}

func TestKafkaPublisher_BookingCreated(t *testing.T) {
	producer := &capturingProducer{}
	pub := NewKafkaPublisher(producer, "assistant")
	booking := &model.Booking{
		ID:           "665f1c2a9b1e8a3d4c5b6aff",
		DepartmentID: "665f1c2a9b1e8a3d4c5b6a01",
		BookingTime:  time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC),
		Status:       model.BookingStatusBooked,
	}

	if err := pub.BookingCreated(context.Background(), booking, "Cardiology"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.messages))
	}
	msg := producer.messages[0]
	if msg.Key != booking.DepartmentID {
		t.Errorf("key = %q, want department id", msg.Key)
	}
	if msg.GetEventType() != EventBookingCreated {
		t.Errorf("event type = %q", msg.GetEventType())
	}
	if msg.Headers[kafka.HeaderSource] != "assistant" {
		t.Errorf("source = %q", msg.Headers[kafka.HeaderSource])
	}

	var payload BookingCreated
	if err := msg.DecodeValue(&payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.BookingID != booking.ID || payload.Department != "Cardiology" || !payload.BookingTime.Equal(booking.BookingTime) {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestKafkaPublisher_PropagatesError(t *testing.T) {
	publishErr := errors.New("broker down")
	pub := NewKafkaPublisher(&capturingProducer{err: publishErr}, "assistant")

	err := pub.BookingCreated(context.Background(), &model.Booking{DepartmentID: "d"}, "Cardiology")

	if !errors.Is(err, publishErr) {
		t.Errorf("expected broker error, got %v", err)
	}
}

func TestNoopPublisher(t *testing.T) {
	if err := NewNoopPublisher().BookingCreated(context.Background(), &model.Booking{}, ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
