// Package replay remembers processed webhook deliveries so a retried delivery is
// applied once.
package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Guard claims delivery keys
type Guard interface {
	// Claim returns true the first time key is seen within the guard's window.
	Claim(ctx context.Context, key string) (bool, error)
}

type setNXClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// RedisGuard stores claimed keys in Redis with a TTL
type RedisGuard struct {
	client setNXClient
	prefix string
	ttl    time.Duration
}

// NewRedisGuard creates a guard over an existing client
func NewRedisGuard(client setNXClient, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisGuard{
		client: client,
		prefix: "enrollment:webhook:",
		ttl:    ttl,
	}
}

// Claim implements Guard
func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook key: %w", err)
	}
	return ok, nil
}

// NoopGuard claims every key. It is used when Redis is not configured.
type NoopGuard struct{}

// Claim implements Guard
func (NoopGuard) Claim(context.Context, string) (bool, error) {
	return true, nil
}

// NewRedisClient opens a client and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
