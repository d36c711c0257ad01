package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a key/value cache with per-entry TTL. Caching is an
// optimization, never a correctness dependency: implementations must
// turn every backend failure into a miss (Get) or a no-op (Set/Delete)
// so the caller always receives a usable result with the cache entirely
// disabled or erroring.
type Store interface {
	// Get returns the cached value and true, or (nil, false) on a miss,
	// an expired entry, or any backend error.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. Errors are logged and dropped.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)

	// Delete removes the given keys. Errors are logged and dropped.
	Delete(ctx context.Context, keys ...string)
}

// RedisStore implements Store on a shared Redis client. TTL expiry is
// handled by Redis itself; there is no eviction policy beyond that.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[EmbedCache] Get degraded to miss: key=%s err=%v", key, err)
		return nil, false
	}
	return val, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[EmbedCache] Set dropped: key=%s err=%v", key, err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[EmbedCache] Delete dropped: keys=%v err=%v", keys, err)
	}
}
