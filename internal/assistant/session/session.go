package session

import (
	"context"
	"errors"
	"time"

	"medassist/internal/assistant/core"
	"medassist/internal/assistant/grounding"
)

var (
	ErrNotFound         = errors.New("conversation not found")
	ErrStoreUnavailable = errors.New("session store unavailable")
)

// Session is one caller conversation: the language model context plus the
// schedule snapshot it was grounded on.
type Session struct {
	ID        string                `json:"id"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
	Messages  []core.Message        `json:"messages"`
	Tools     []core.ToolDefinition `json:"tools"`
	Grounding *grounding.Grounding  `json:"grounding"`
}

type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}
