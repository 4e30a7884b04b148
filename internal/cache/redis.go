package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "lottoledger:agg:"

// RedisConfig holds configuration for the Redis store
type RedisConfig struct {
	// Redis client
	Client *redis.Client
	// KeyPrefix namespaces every key; defaults to "lottoledger:agg:"
	KeyPrefix string
	// TTL expires entries that are never superseded; zero keeps them
	TTL time.Duration
}

// RedisStore keeps entries in Redis so several back-office processes share
// one cache. Each (session, window) pair has an index set of its entry keys
// so a window switch can delete them without scanning.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed store
func NewRedisStore(ctx context.Context, cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Client == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	if err := cfg.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: cfg.Client, prefix: prefix, ttl: cfg.TTL}, nil
}

func (r *RedisStore) windowKey(session string) string {
	return r.prefix + session + ":window"
}

func (r *RedisStore) indexKey(session, window string) string {
	return r.prefix + session + ":" + window + ":index"
}

func (r *RedisStore) entryKey(key Key) string {
	return r.prefix + key.String()
}

func (r *RedisStore) generationKey() string {
	return r.prefix + "generation"
}

func (r *RedisStore) Window(ctx context.Context, session string) (string, error) {
	w, err := r.client.Get(ctx, r.windowKey(session)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read window: %w", err)
	}
	return w, nil
}

func (r *RedisStore) SetWindow(ctx context.Context, session, window string) error {
	old, err := r.Window(ctx, session)
	if err != nil {
		return err
	}
	if old == window {
		return nil
	}

	pipe := r.client.TxPipeline()
	if old != "" {
		idx := r.indexKey(session, old)
		keys, err := r.client.SMembers(ctx, idx).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read window index: %w", err)
		}
		if len(keys) > 0 {
			pipe.Del(ctx, keys...)
		}
		pipe.Del(ctx, idx)
	}
	pipe.Set(ctx, r.windowKey(session), window, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to switch window: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	data, err := r.client.Get(ctx, r.entryKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key Key, value []byte) error {
	entry := r.entryKey(key)
	idx := r.indexKey(key.Session, key.Window)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, entry, value, r.ttl)
	pipe.SAdd(ctx, idx, entry)
	if r.ttl > 0 {
		pipe.Expire(ctx, idx, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Generation(ctx context.Context) (int64, error) {
	gen, err := r.client.Get(ctx, r.generationKey()).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation: %w", err)
	}
	return gen, nil
}

func (r *RedisStore) BumpGeneration(ctx context.Context) (int64, error) {
	gen, err := r.client.Incr(ctx, r.generationKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump generation: %w", err)
	}
	return gen, nil
}

// Purge deletes every key under the prefix
func (r *RedisStore) Purge(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
