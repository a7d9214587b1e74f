package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// blockingPublisher holds every delivery until released or its context ends.
type blockingPublisher struct {
	release chan struct{}

	mu        sync.Mutex
	delivered []string
	timedOut  []string
}

func (b *blockingPublisher) Publish(ctx context.Context, key string, _ any) error {
	select {
	case <-b.release:
		b.mu.Lock()
		b.delivered = append(b.delivered, key)
		b.mu.Unlock()
		return nil
	case <-ctx.Done():
		b.mu.Lock()
		b.timedOut = append(b.timedOut, key)
		b.mu.Unlock()
		return ctx.Err()
	}
}

func (b *blockingPublisher) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.delivered), len(b.timedOut)
}

func TestAsyncPublishDoesNotWaitForBroker(t *testing.T) {
	slow := &blockingPublisher{release: make(chan struct{})}
	a := NewAsync(slow, zaptest.NewLogger(t).Sugar(), time.Minute, 4)

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	require.NoError(t, a.Publish(ctx, PaymentPaid, Payment{ExternalID: "BK-1"}))
	require.NoError(t, a.Publish(ctx, BookingSettled, Booking{BookingID: 1}))
	assert.Less(t, time.Since(start), time.Second)

	// The request finishing must not abort delivery.
	cancel()
	close(slow.release)

	a.Close()
	delivered, timedOut := slow.counts()
	assert.Equal(t, 2, delivered)
	assert.Zero(t, timedOut)
}

func TestAsyncBoundsEachDelivery(t *testing.T) {
	stuck := &blockingPublisher{release: make(chan struct{})}
	a := NewAsync(stuck, zaptest.NewLogger(t).Sugar(), 20*time.Millisecond, 4)

	require.NoError(t, a.Publish(context.Background(), PaymentOpened, nil))
	assert.Eventually(t, func() bool {
		_, timedOut := stuck.counts()
		return timedOut == 1
	}, time.Second, 5*time.Millisecond)

	a.Close()
}

func TestAsyncDropsWhenFullAndRejectsAfterClose(t *testing.T) {
	stuck := &blockingPublisher{release: make(chan struct{})}
	a := NewAsync(stuck, zaptest.NewLogger(t).Sugar(), time.Minute, 1)

	ctx := context.Background()
	// The worker takes the first event and blocks; the second fills the queue.
	require.NoError(t, a.Publish(ctx, BookingCreated, nil))
	assert.Eventually(t, func() bool { return len(a.queue) == 0 }, time.Second, time.Millisecond)
	require.NoError(t, a.Publish(ctx, BookingMoved, nil))
	assert.ErrorIs(t, a.Publish(ctx, BookingCancelled, nil), ErrQueueFull)

	close(stuck.release)
	a.Close()
	assert.ErrorIs(t, a.Publish(ctx, BookingCreated, nil), ErrClosed)

	delivered, _ := stuck.counts()
	assert.Equal(t, 2, delivered)
}
