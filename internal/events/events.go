// Package events publishes domain events after a unit of work commits.
// Delivery is best effort: a failed publish is logged and never undoes or
// fails the operation that produced it.
package events

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	BookingCreated   = "booking.created"
	BookingMoved     = "booking.moved"
	BookingCancelled = "booking.cancelled"
	BookingSettled   = "booking.settled"
	PaymentOpened    = "payment.opened"
	PaymentPaid      = "payment.paid"
	PaymentTerminal  = "payment.terminal"
)

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
}

type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

// Fanout sends every event to all publishers.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, key string, v any) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, key, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, logger *zap.SugaredLogger, key string, v any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, key, v); err != nil {
		logger.Warnw("publish event failed", "key", key, "error", err)
	}
}

type Booking struct {
	BookingID  int64  `json:"booking_id"`
	VenueID    int64  `json:"venue_id"`
	CourtID    int64  `json:"court_id"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	Price      int64  `json:"price"`
	PaidAmount int64  `json:"paid_amount"`
}

type Payment struct {
	ExternalID string `json:"external_id"`
	OwnerKind  string `json:"owner_kind"`
	OwnerID    int64  `json:"owner_id"`
	Method     string `json:"method"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
}
