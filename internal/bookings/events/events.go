package events

import (
	"context"
	"fmt"
	"time"

	"medassist/pkg/kafka"
	"medassist/pkg/middleware"
	"medassist/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	SchemaVersion       = "1"
)

// BookingCreated is the payload published after a booking is stored.
type BookingCreated struct {
	BookingID    string    `json:"booking_id"`
	DepartmentID string    `json:"department_id"`
	Department   string    `json:"department,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	BookingTime  time.Time `json:"booking_time"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking, department string) error
}

// messagePublisher is satisfied by *kafka.Producer.
type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer messagePublisher
	source   string
}

func NewKafkaPublisher(producer messagePublisher, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking, department string) error {
	msg, err := kafka.NewMessage().
		WithKey(booking.DepartmentID).
		WithEventType(EventBookingCreated).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithValue(BookingCreated{
			BookingID:    booking.ID,
			DepartmentID: booking.DepartmentID,
			Department:   department,
			UserID:       booking.UserID,
			BookingTime:  booking.BookingTime,
			Status:       booking.Status,
			CreatedAt:    booking.CreatedAt,
		}).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build booking event: %w", err)
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}
	return nil
}

type noopPublisher struct{}

// NewNoopPublisher is used when Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) BookingCreated(ctx context.Context, booking *model.Booking, department string) error {
	return nil
}
