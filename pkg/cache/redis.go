package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the Redis-backed cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisCache is a BytesCache backed by a Redis instance, shared across
// daemon replicas.
type RedisCache struct {
	cli    *redis.Client
	prefix string
}

func NewRedisCache(cfg RedisConfig) *RedisCache {
	cli := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisCache{cli: cli, prefix: cfg.Prefix}
}

func (r *RedisCache) GetBytes(key string) ([]byte, bool, error) {
	b, err := r.cli.Get(context.Background(), r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return r.cli.Set(context.Background(), r.prefix+key, value, ttl).Err()
}

// Health pings the Redis server.
func (r *RedisCache) Health(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

// Close releases the client.
func (r *RedisCache) Close() error { return r.cli.Close() }

var _ BytesCache = (*RedisCache)(nil)
