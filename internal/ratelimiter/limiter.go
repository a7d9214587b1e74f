package ratelimiter

import (
	"context"
	"time"
)

// Limiter decides whether the caller identified by key may proceed. When it
// may not, the duration is how long to wait before retrying.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration)
}

type Config struct {
	RequestsPerTimeFrame int
	TimeFrame            time.Duration
	Enabled              bool
}
