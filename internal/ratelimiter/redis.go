package ratelimiter

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var fixedWindowScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return { count, redis.call('PTTL', KEYS[1]) }
`)

// RedisFixedWindowLimiter shares a fixed window across API instances. Redis
// errors let the request through.
type RedisFixedWindowLimiter struct {
	rdb    redis.Scripter
	limit  int
	window time.Duration
	prefix string
	logger *zap.SugaredLogger
}

func NewRedisFixedWindowLimiter(rdb redis.Scripter, limit int, frame time.Duration, logger *zap.SugaredLogger) *RedisFixedWindowLimiter {
	return &RedisFixedWindowLimiter{rdb: rdb, limit: limit, window: frame, prefix: "ratelimit:", logger: logger}
}

func (l *RedisFixedWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	vals, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int64Slice()
	if err != nil || len(vals) != 2 {
		l.logger.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
		return true, 0
	}

	if vals[0] > int64(l.limit) {
		retry := time.Duration(vals[1]) * time.Millisecond
		if retry <= 0 {
			retry = l.window
		}
		return false, retry
	}
	return true, 0
}

// NewRedisClient connects and pings. A failed ping returns the error so the
// caller can fall back to an in-process limiter.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}
