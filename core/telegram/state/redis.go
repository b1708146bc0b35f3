package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	coreconfig "github.com/m3rciful/fishbot/core/config"
	"github.com/m3rciful/fishbot/core/logger"
	"log/slog"
)

type redisManager struct {
	client *redis.Client
}

// NewRedisManager connects to Redis and returns a Manager backed by it.
// Keys are raw chat ids, values are raw state tags, no TTL.
func NewRedisManager(ctx context.Context, cfg coreconfig.RedisConfig) (Manager, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("state: redis connection failed: %w", err)
	}

	logger.Session.LogAttrs(ctx, slog.LevelInfo, "connected",
		slog.String("event", "redis.connect"),
		slog.String("addr", cfg.Addr()),
		slog.Int("db", cfg.DB),
	)

	return &redisManager{client: client}, nil
}

// NewRedisManagerWithClient wraps an existing client; used by tests.
func NewRedisManagerWithClient(client *redis.Client) Manager {
	return &redisManager{client: client}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// Get returns the stored state for a user.
func (m *redisManager) Get(ctx context.Context, userID int64) (State, bool, error) {
	raw, err := m.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("state: get %d: %w", userID, err)
	}
	return State(raw), true, nil
}

// Set overwrites the stored state for a user.
func (m *redisManager) Set(ctx context.Context, userID int64, st State) error {
	if err := m.client.Set(ctx, key(userID), string(st), 0).Err(); err != nil {
		return fmt.Errorf("state: set %d: %w", userID, err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (m *redisManager) Close() error {
	return m.client.Close()
}
