package kafka

import "errors"

var (
	ErrProducerClosed = errors.New("kafka producer is closed")

	// Build failures. Every published event needs a partition key, a payload and a type.
	ErrEmptyKey         = errors.New("message key cannot be empty")
	ErrEmptyValue       = errors.New("message value cannot be empty")
	ErrMissingEventType = errors.New("message event type is required")
)
