package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const KeyPrefix = "assistant:session:"

type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func Key(id string) string {
	return KeyPrefix + id
}

func (r *redisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	if r.client == nil {
		return ErrStoreUnavailable
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := r.client.Set(ctx, Key(s.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: set: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (r *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	if r.client == nil {
		return nil, ErrStoreUnavailable
	}

	data, err := r.client.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("%w: get: %w", ErrStoreUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *redisStore) Delete(ctx context.Context, id string) error {
	if r.client == nil {
		return ErrStoreUnavailable
	}

	deleted, err := r.client.Del(ctx, Key(id)).Result()
	if err != nil {
		return fmt.Errorf("%w: del: %w", ErrStoreUnavailable, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}
