package errors

import "errors"

var (
	ErrInvalidDepartmentID = errors.New("invalid department ID format")

	// ErrSlotConflict means the department already has an active booking at that time.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrSlotLocked means another request holds the advisory lock for the slot.
	ErrSlotLocked = errors.New("slot is locked by another booking request")
)
