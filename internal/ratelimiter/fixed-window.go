package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// FixedWindowRateLimiter counts requests per key in windows that start at
// the key's first request.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	count int
	reset time.Time
}

func NewFixedWindowLimiter(limit int, frame time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  frame,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok || !now.Before(w.reset) {
		w = &window{reset: now.Add(rl.window)}
		rl.clients[key] = w
	}
	if w.count >= rl.limit {
		return false, w.reset.Sub(now)
	}
	w.count++
	return true, 0
}

// Cleanup drops expired windows until ctx is done.
func (rl *FixedWindowRateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Lock()
			now := rl.now()
			for k, w := range rl.clients {
				if !now.Before(w.reset) {
					delete(rl.clients, k)
				}
			}
			rl.Unlock()
		}
	}
}
