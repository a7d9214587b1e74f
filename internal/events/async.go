package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPublishTimeout = 5 * time.Second
	DefaultQueueSize      = 256
)

var (
	ErrQueueFull = errors.New("event queue is full")
	ErrClosed    = errors.New("event publisher is closed")
)

type envelope struct {
	ctx context.Context
	key string
	v   any
}

// Async hands events to a single background worker so request handlers never
// wait on the broker or push service. Each delivery gets its own timeout and
// is detached from the caller's cancellation. A full queue drops the event.
type Async struct {
	next    Publisher
	logger  *zap.SugaredLogger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan envelope
	done   chan struct{}
}

func NewAsync(next Publisher, logger *zap.SugaredLogger, timeout time.Duration, size int) *Async {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	if size <= 0 {
		size = DefaultQueueSize
	}
	a := &Async{
		next:    next,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan envelope, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) Publish(ctx context.Context, key string, v any) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- envelope{ctx: context.WithoutCancel(ctx), key: key, v: v}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		ctx, cancel := context.WithTimeout(e.ctx, a.timeout)
		if err := a.next.Publish(ctx, e.key, e.v); err != nil {
			a.logger.Warnw("deliver event failed", "key", e.key, "error", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queued ones to be delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
