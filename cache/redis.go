package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/menucloud/menucloud/metrics"
)

// RedisStore is the networked backend. Backend errors are swallowed into
// a miss/no-op and only surface as a counter, keeping the read path alive
// when redis is down.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, password string, db int) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheBackendErrors.Inc()
		}
		return nil, false
	}
	return value, true
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) bool {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		metrics.CacheBackendErrors.Inc()
		return false
	}
	return true
}

func (r *RedisStore) Delete(ctx context.Context, key string) bool {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		metrics.CacheBackendErrors.Inc()
		return false
	}
	return true
}

// escapeMatch quotes SCAN glob metacharacters so a prefix only ever
// matches keys literally, whatever characters its components carry.
func escapeMatch(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`*`, `\*`,
		`?`, `\?`,
		`[`, `\[`,
		`]`, `\]`,
	).Replace(s)
}

func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) bool {
	iter := r.client.Scan(ctx, 0, escapeMatch(prefix)+"*", 0).Iterator()
	ok := true
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			metrics.CacheBackendErrors.Inc()
			ok = false
		}
	}
	if err := iter.Err(); err != nil {
		metrics.CacheBackendErrors.Inc()
		return false
	}
	return ok
}

// Close releases the connection pool. The memory backend has no teardown.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
