package pos

import (
	"context"
	"testing"
	"time"

	"arena/internal/allocator"
	"arena/internal/apperr"
	"arena/internal/booking"
	"arena/internal/domain/bookings"
	"arena/internal/domain/storage"
	"arena/internal/domain/transactions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSettleCashCascadesOnce(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()
	st := storage.NewMemory()
	codes, err := bookings.NewCodes("pos")
	require.NoError(t, err)
	bsvc := booking.NewService(st, allocator.New(logger), codes, logger, booking.Options{})
	svc := NewService(st, bsvc, logger)

	v, err := bsvc.CreateVenue(ctx, booking.VenueInput{Name: "Arena"})
	require.NoError(t, err)
	c, err := bsvc.CreateCourt(ctx, v.ID, "A", 40_000)
	require.NoError(t, err)
	b, err := bsvc.Create(ctx, booking.CreateInput{
		VenueID: v.ID, CourtID: c.ID, Date: bookings.NewDate(2026, time.June, 1),
		Start: "19:00", Duration: 2, Customer: bookings.Customer{Name: "Rina"},
	})
	require.NoError(t, err)

	tx, err := svc.Create(ctx, CreateInput{VenueID: v.ID, BookingID: &b.ID, Total: 80_000})
	require.NoError(t, err)
	assert.Equal(t, transactions.StatusPending, tx.Status)

	paid, err := svc.SettleCash(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, transactions.StatusPaid, paid.Status)
	assert.Equal(t, int64(80_000), paid.PaidAmount)

	_, err = svc.SettleCash(ctx, tx.ID)
	require.NoError(t, err)

	got, err := bsvc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusPaid, got.Status)
	assert.Equal(t, int64(80_000), got.PaidAmount)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()
	st := storage.NewMemory()
	svc := NewService(st, nil, logger)

	_, err := svc.Create(ctx, CreateInput{VenueID: 1, Total: 0})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Create(ctx, CreateInput{VenueID: 42, Total: 10})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Get(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
