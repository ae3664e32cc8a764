package session

import (
	"context"
	"errors"
	"time"

	"medassist/internal/assistant/core"
	"medassist/internal/assistant/grounding"
	apperrors "medassist/pkg/errors"
	"medassist/pkg/logger"

	"github.com/google/uuid"
)

type Manager struct {
	store   Store
	builder *grounding.Builder
	engine  *core.Engine
	ttl     time.Duration
	now     func() time.Time
	log     *logger.Logger
}

func NewManager(store Store, builder *grounding.Builder, engine *core.Engine, ttl time.Duration, now func() time.Time, log *logger.Logger) *Manager {
	return &Manager{
		store:   store,
		builder: builder,
		engine:  engine,
		ttl:     ttl,
		now:     now,
		log:     log,
	}
}

// Start grounds a new conversation on the current schedule and stores it.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	now := m.now()

	g, err := m.builder.Build(ctx, now)
	if err != nil {
		m.log.Error("Failed to ground conversation", "error", err)
		return nil, err
	}

	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []core.Message{{Role: core.RoleSystem, Content: g.SystemPrompt}},
		Tools:     m.engine.Definitions(),
		Grounding: g,
	}
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		m.log.Error("Failed to save conversation", "id", s.ID, "error", err)
		return nil, storeError(err)
	}

	m.log.Info("Conversation started", "id", s.ID, "departments", len(g.Departments))
	return s, nil
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return s, nil
}

func (m *Manager) End(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	m.log.Info("Conversation ended", "id", id)
	return nil
}

// HandleToolCalls runs the calls in order and appends their replies to the
// conversation. A failed call still yields its fallback reply. A batch naming an
// unknown tool is rejected before any call runs.
//
// Concurrent calls on one conversation are last-writer-wins; a conversation is
// driven by one voice flow at a time.
func (m *Manager) HandleToolCalls(ctx context.Context, id string, calls []core.ToolCall) ([]core.Message, error) {
	if len(calls) == 0 {
		return nil, apperrors.InvalidInput("at least one tool call is required")
	}
	for _, call := range calls {
		if !m.engine.Has(call.Name) {
			return nil, apperrors.InvalidInput("unsupported tool: " + call.Name).WithCause(core.ErrUnknownTool)
		}
	}

	s, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	replies := make([]core.Message, 0, len(calls))
	for _, call := range calls {
		msgs, _ := m.engine.Run(ctx, call)
		replies = append(replies, msgs...)
	}

	s.Messages = append(s.Messages, replies...)
	s.UpdatedAt = m.now()
	if err := m.store.Save(ctx, s, m.ttl); err != nil {
		m.log.Error("Failed to save conversation", "id", s.ID, "error", err)
		return nil, storeError(err)
	}

	return replies, nil
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return apperrors.NotFound("Conversation").WithCause(err)
	case errors.Is(err, ErrStoreUnavailable):
		return apperrors.Unavailable("Session store", err)
	default:
		return apperrors.Internal("Failed to access conversation", err)
	}
}
