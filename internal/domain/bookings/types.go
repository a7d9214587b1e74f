package bookings

import (
	"context"
	"time"

	"arena/internal/interval"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDP        Status = "DP"
	StatusPaid      Status = "LUNAS"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusDP, StatusPaid, StatusCancelled:
		return true
	}
	return false
}

// Active bookings hold their slot. Cancelled ones release it.
func (s Status) Active() bool { return s != StatusCancelled }

// StatusFor derives the payment status of a live booking from what has been paid.
func StatusFor(paid, price int64) Status {
	switch {
	case paid <= 0:
		return StatusPending
	case paid >= price:
		return StatusPaid
	default:
		return StatusDP
	}
}

type Customer struct {
	Name       string  `json:"name"`
	Phone      *string `json:"phone,omitempty" swaggertype:"string"`
	CustomerID *int64  `json:"customer_id,omitempty" swaggertype:"integer"`
}

// Booking is a reservation of one court for one slot on one date. Price is
// fixed when the booking is created and never recomputed.
type Booking struct {
	ID         int64             `json:"id"`
	VenueID    int64             `json:"venue_id"`
	CourtID    int64             `json:"court_id"`
	Date       Date              `json:"date" swaggertype:"string"`
	Slot       interval.Interval `json:"slot"`
	Customer   Customer          `json:"customer"`
	Price      int64             `json:"price"`
	PaidAmount int64             `json:"paid_amount"`
	Status     Status            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (b *Booking) DurationHours() int { return b.Slot.DurationMinutes() / interval.MinutesPerHour }

func (b *Booking) Outstanding() int64 {
	if b.PaidAmount >= b.Price {
		return 0
	}
	return b.Price - b.PaidAmount
}

// Store is implemented by the Postgres repository and the in-memory store.
// Get* return nil, nil when the row does not exist.
type Store interface {
	// Create inserts b. A slot collision is reported as apperr.ErrConflict.
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*Booking, error)
	// ListActive returns the non-cancelled bookings of a court on a date.
	ListActive(ctx context.Context, courtID int64, date Date) ([]*Booking, error)
	ListByCourtDate(ctx context.Context, courtID int64, date Date) ([]*Booking, error)
	// Relocate moves an active booking. Returns false when no active booking matched.
	Relocate(ctx context.Context, id, courtID int64, date Date, slot interval.Interval) (bool, error)
	UpdatePayment(ctx context.Context, id, paidAmount int64, status Status) error
	SetStatus(ctx context.Context, id int64, status Status) error
	// AddSettlement records a payment reference against the booking. Returns
	// false when the reference was already recorded.
	AddSettlement(ctx context.Context, id int64, reference string, amount int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
