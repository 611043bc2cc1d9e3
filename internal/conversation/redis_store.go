package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fluxo-ai/internal/common/database"
	"fluxo-ai/internal/models"
)

const sessionKeyPrefix = "assistant:session:"

// RedisStore persists sessions in Redis with a TTL enforced by key expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *database.RedisClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client.GetClient(), ttl: ttl}
}

func sessionKey(userID string) string {
	return sessionKeyPrefix + userID
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

func (s *RedisStore) Create(ctx context.Context, session *models.Session) error {
	return s.save(ctx, session)
}

func (s *RedisStore) Update(ctx context.Context, session *models.Session) error {
	return s.save(ctx, session)
}

func (s *RedisStore) save(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(session.UserID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}
