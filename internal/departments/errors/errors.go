package errors

import "errors"

var (
	ErrNotFound = errors.New("department not found")

	ErrInvalidID = errors.New("invalid department ID format")
)
