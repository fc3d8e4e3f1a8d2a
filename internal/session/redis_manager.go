package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aduro-health/intake-assistant/internal/intake"
	"github.com/redis/go-redis/v9"
)

// Inactive sessions expire after a day; the pipeline resumes from the
// database when a user comes back later.
const sessionTTL = 24 * time.Hour

// RedisManager persists conversation contexts in Redis so sessions
// survive restarts and can be shared across instances.
type RedisManager struct {
	client *redis.Client
}

// NewRedisManager creates a Redis-backed session manager and verifies
// connectivity.
func NewRedisManager(redisHost, redisPort string) (*RedisManager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisManager{client: client}, nil
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d:context", userID)
}

// Load returns the stored context for a user, or nil when none exists.
func (m *RedisManager) Load(ctx context.Context, userID uint) (*intake.ConversationContext, error) {
	data, err := m.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session for user %d: %w", userID, err)
	}

	var conv intake.ConversationContext
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to decode session for user %d: %w", userID, err)
	}
	return &conv, nil
}

// Save stores the context for a user with a refreshed TTL.
func (m *RedisManager) Save(ctx context.Context, userID uint, conv *intake.ConversationContext) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to encode session for user %d: %w", userID, err)
	}
	if err := m.client.Set(ctx, sessionKey(userID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session for user %d: %w", userID, err)
	}
	return nil
}

// Clear removes the stored context for a user.
func (m *RedisManager) Clear(ctx context.Context, userID uint) error {
	if err := m.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear session for user %d: %w", userID, err)
	}
	return nil
}

// Close closes the Redis connection.
func (m *RedisManager) Close() error {
	return m.client.Close()
}
