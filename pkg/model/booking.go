package model

import (
	"time"
)

const (
	BookingStatusBooked    = "booked"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// ActiveBookingStatuses are the statuses that occupy a slot.
var ActiveBookingStatuses = []string{BookingStatusBooked, BookingStatusConfirmed}

type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	DepartmentID string    `json:"department_id" bson:"department_id" validate:"required,mongodb"`
	UserID       string    `json:"user_id,omitempty" bson:"user_id,omitempty" validate:"omitempty,max=100"`
	BookingTime  time.Time `json:"booking_time" bson:"booking_time" validate:"required"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=booked confirmed cancelled"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingRequest is the body of the guarded booking endpoint.
type BookingRequest struct {
	DepartmentID string    `json:"department_id" validate:"required,mongodb"`
	UserID       string    `json:"user_id,omitempty" validate:"omitempty,max=100"`
	BookingTime  time.Time `json:"booking_time" validate:"required"`
}

// Confirmation is what the assistant reads back to the caller after a booking.
type Confirmation struct {
	BookingID  string `json:"booking_id"`
	Department string `json:"department"`
	Date       string `json:"date"`
	Time       string `json:"time"`
}
