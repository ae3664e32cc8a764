package core

import (
	"context"
	"fmt"
)

// Limiter bounds how many tool calls run at once across all conversations.
type Limiter struct {
	slots chan struct{}
}

func NewLimiter(maxConcurrent int) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Limiter{slots: make(chan struct{}, maxConcurrent)}
}

// Run executes fn once a slot is free. The slot is released even if fn panics.
// Waiting is abandoned when ctx is done.
func (l *Limiter) Run(ctx context.Context, fn func()) error {
	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.slots }()

	fn()
	return nil
}

func (l *Limiter) InUse() int {
	return len(l.slots)
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
