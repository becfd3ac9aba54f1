package cache

import (
	"certprep/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache keeps exam state per session id
type SessionCache interface {
	Set(ctx context.Context, sessionID string, state *model.ExamState) error
	Get(ctx context.Context, sessionID string) (*model.ExamState, error)
	Delete(ctx context.Context, sessionID string) error
}

type sessionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionCache creates a Redis-backed session cache
func NewSessionCache(client *redis.Client, ttl time.Duration) SessionCache {
	return &sessionCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *sessionCache) key(sessionID string) string {
	return fmt.Sprintf("exam:%s", sessionID)
}

func (c *sessionCache) Set(ctx context.Context, sessionID string, state *model.ExamState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(sessionID), data, c.ttl).Err()
}

// Get returns nil when nothing is stored or the stored value cannot be read
func (c *sessionCache) Get(ctx context.Context, sessionID string) (*model.ExamState, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.ExamState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

func (c *sessionCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
