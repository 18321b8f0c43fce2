// Package session stores anonymous shopper sessions in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/kidsshop-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var ErrTokenCollision = errors.New("session token collision")

// RedisStore issues opaque session tokens. Each token lives under its own key
// with a sliding TTL refreshed on every successful lookup.
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func key(token string) string {
	return keyPrefix + token
}

func (s *RedisStore) Create(ctx context.Context) (string, error) {
	token := uuid.NewString()

	created, err := s.client.SetNX(ctx, key(token), time.Now().UTC().Format(time.RFC3339), s.ttl).Result()
	if err != nil {
		logger.Error("Failed to store session", err)
		return "", fmt.Errorf("create session: %w", err)
	}
	if !created {
		return "", ErrTokenCollision
	}

	logger.Debug("Session stored", map[string]interface{}{
		"ttl": s.ttl.String(),
	})
	return token, nil
}

func (s *RedisStore) Exists(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	refreshed, err := s.client.Expire(ctx, key(token), s.ttl).Result()
	if err != nil {
		logger.Error("Failed to look up session", err)
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return refreshed, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		logger.Error("Failed to delete session", err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
