package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type recorder struct {
	keys []string
	err  error
}

func (r *recorder) Publish(_ context.Context, key string, _ any) error {
	r.keys = append(r.keys, key)
	return r.err
}

func TestFanoutReachesEveryPublisher(t *testing.T) {
	a, b := &recorder{}, &recorder{err: errors.New("broker down")}
	f := Fanout{a, b}

	err := f.Publish(context.Background(), PaymentPaid, Payment{ExternalID: "PAY-1"})
	assert.Error(t, err)
	assert.Equal(t, []string{PaymentPaid}, a.keys)
	assert.Equal(t, []string{PaymentPaid}, b.keys)
}

func TestEmitSwallowsErrors(t *testing.T) {
	r := &recorder{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), r, zaptest.NewLogger(t).Sugar(), BookingCreated, Booking{BookingID: 1})
	})
	assert.Len(t, r.keys, 1)

	Emit(context.Background(), nil, zaptest.NewLogger(t).Sugar(), BookingCreated, nil)
}
