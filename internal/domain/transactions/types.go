package transactions

import (
	"context"
	"time"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// Transaction is a point-of-sale sale, optionally tied to a booking.
type Transaction struct {
	ID         int64      `json:"id"`
	VenueID    int64      `json:"venue_id"`
	BookingID  *int64     `json:"booking_id,omitempty" swaggertype:"integer"`
	Total      int64      `json:"total"`
	PaidAmount int64      `json:"paid_amount"`
	Status     Status     `json:"status"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type Store interface {
	Create(ctx context.Context, t *Transaction) error
	// GetByID returns nil, nil when missing.
	GetByID(ctx context.Context, id int64) (*Transaction, error)
	// MarkPaid moves a PENDING transaction to PAID. Returns false when it was
	// not pending.
	MarkPaid(ctx context.Context, id, paidAmount int64, at time.Time) (bool, error)
}
