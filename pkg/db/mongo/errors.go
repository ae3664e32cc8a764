package mongo

import (
	"errors"
	"fmt"

	apperrors "medassist/pkg/errors"
)

var (
	// ErrStoreUnavailable is returned when no database connection is established,
	// including after the client has been shut down.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrStoreIO wraps any failure reported by the driver during a query or write.
	ErrStoreIO = errors.New("store i/o error")
)

// IOError wraps a driver error so callers can match it with errors.Is(err, ErrStoreIO)
// while keeping the original error in the chain.
func IOError(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreIO, op, err)
}

// AppError maps store failures onto the API error model: an unavailable store
// is reported as 503, anything else as an internal error carrying message.
func AppError(message string, err error) *apperrors.AppError {
	if errors.Is(err, ErrStoreUnavailable) {
		return apperrors.Unavailable("Schedule store", err)
	}
	return apperrors.Internal(message, err)
}
