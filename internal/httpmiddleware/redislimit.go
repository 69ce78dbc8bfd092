package httpmiddleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisFixedWindow is a Redis-backed limiter so limits hold across
// instances. It counts requests per key in fixed one-minute windows.
type RedisFixedWindow struct {
	client *redis.Client
	limit  int
}

// NewRedisFixedWindow creates a limiter allowing perMinute requests per key.
func NewRedisFixedWindow(client *redis.Client, perMinute int) *RedisFixedWindow {
	return &RedisFixedWindow{client: client, limit: perMinute}
}

// Allow increments the window counter for key. Redis being unreachable
// fails open: a broken limiter must not take the API down with it.
func (l *RedisFixedWindow) Allow(ctx context.Context, key string) bool {
	window := time.Now().Unix() / 60
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return true
	}
	return count.Val() <= int64(l.limit)
}
