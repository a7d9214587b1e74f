// Package pos handles point-of-sale transactions settled at the desk.
package pos

import (
	"context"
	"fmt"
	"time"

	"arena/internal/apperr"
	"arena/internal/booking"
	"arena/internal/domain/storage"
	"arena/internal/domain/transactions"

	"go.uber.org/zap"
)

type Service struct {
	store    storage.Store
	bookings *booking.Service
	logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewService(store storage.Store, bookingSvc *booking.Service, logger *zap.SugaredLogger) *Service {
	return &Service{store: store, bookings: bookingSvc, logger: logger, now: time.Now}
}

type CreateInput struct {
	VenueID   int64
	BookingID *int64
	Total     int64
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*transactions.Transaction, error) {
	if in.Total <= 0 {
		return nil, apperr.Validation("total must be positive")
	}
	repos := s.store.Repos()

	v, err := repos.Venues.GetVenue(ctx, in.VenueID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("venue not found")
	}
	if in.BookingID != nil {
		b, err := repos.Bookings.GetByID(ctx, *in.BookingID)
		if err != nil {
			return nil, err
		}
		if b == nil || b.VenueID != in.VenueID {
			return nil, apperr.NotFound("booking not found")
		}
	}

	t := &transactions.Transaction{
		VenueID:   in.VenueID,
		BookingID: in.BookingID,
		Total:     in.Total,
		Status:    transactions.StatusPending,
	}
	if err := repos.Transactions.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Infow("transaction created", "transaction_id", t.ID, "venue_id", t.VenueID, "total", t.Total)
	return t, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*transactions.Transaction, error) {
	t, err := s.store.Repos().Transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("transaction not found")
	}
	return t, nil
}

// SettleCash marks the transaction paid in full and credits the linked
// booking under CASH-TX-<id>. Settling an already paid transaction returns
// it unchanged.
func (s *Service) SettleCash(ctx context.Context, id int64) (*transactions.Transaction, error) {
	var out *transactions.Transaction
	err := s.store.WithTx(ctx, func(r *storage.Repos) error {
		t, err := r.Transactions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return apperr.NotFound("transaction not found")
		}
		out = t
		if t.Status == transactions.StatusPaid {
			return nil
		}

		now := s.now()
		ok, err := r.Transactions.MarkPaid(ctx, t.ID, t.Total, now)
		if err != nil || !ok {
			return err
		}
		t.Status, t.PaidAmount, t.PaidAt = transactions.StatusPaid, t.Total, &now

		if t.BookingID != nil {
			ref := fmt.Sprintf("CASH-TX-%d", t.ID)
			if _, _, err := s.bookings.ApplyPaymentTx(ctx, r, *t.BookingID, ref, t.Total); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infow("transaction settled in cash", "transaction_id", out.ID, "amount", out.PaidAmount)
	return out, nil
}
