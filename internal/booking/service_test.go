package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"arena/internal/allocator"
	"arena/internal/apperr"
	"arena/internal/domain/bookings"
	"arena/internal/domain/storage"
	"arena/internal/domain/venues"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var day = bookings.NewDate(2026, time.May, 4)

type fixture struct {
	svc   *Service
	store *storage.Memory
	venue *venues.Venue
	court *venues.Court
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := zaptest.NewLogger(t).Sugar()
	st := storage.NewMemory()
	codes, err := bookings.NewCodes("test")
	require.NoError(t, err)

	f := &fixture{store: st, now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	f.svc = NewService(st, allocator.New(logger), codes, logger, Options{
		Now: func() time.Time { return f.now },
	})

	f.venue, err = f.svc.CreateVenue(ctx, VenueInput{Name: "GOR Senayan", Open: "06:00", Close: "23:00"})
	require.NoError(t, err)
	f.court, err = f.svc.CreateCourt(ctx, f.venue.ID, "Court 1", 50_000)
	require.NoError(t, err)
	return f
}

func (f *fixture) input(start string, hours int) CreateInput {
	return CreateInput{
		VenueID:  f.venue.ID,
		CourtID:  f.court.ID,
		Date:     day,
		Start:    start,
		Duration: hours,
		Customer: bookings.Customer{Name: "Budi"},
	}
}

func TestCreateCapturesPrice(t *testing.T) {
	f := newFixture(t)
	b, err := f.svc.Create(context.Background(), f.input("10:00", 2))
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), b.Price)
	assert.Equal(t, bookings.StatusPending, b.Status)
	assert.Zero(t, b.PaidAmount)
	assert.Equal(t, 2, b.DurationHours())
}

func TestCreateConflictsAndAdjacency(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.input("11:00", 2))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.svc.Create(ctx, f.input("12:00", 1))
	assert.NoError(t, err, "[10,12) and [12,13) touch but do not overlap")

	_, err = f.svc.Create(ctx, f.input("08:00", 2))
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := f.input("10:00", 0)
	_, err := f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = f.input("22:00", 2)
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation, "ends after closing time")

	in = f.input("10:00", 1)
	in.Customer.Name = " "
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	in = f.input("10:00", 1)
	in.CourtID = 9999
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	in = f.input("10:00", 1)
	in.VenueID = 9999
	_, err = f.svc.Create(ctx, in)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	inactive := false
	_, err = f.svc.UpdateCourt(ctx, f.court.ID, venues.CourtPatch{IsActive: &inactive})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.input("10:00", 1))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCancelFreesSlot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, cancelled.Status)

	again, err := f.svc.Cancel(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, again.Status)

	_, err = f.svc.Create(ctx, f.input("10:00", 2))
	assert.NoError(t, err)

	_, err = f.svc.Move(ctx, b.ID, MoveInput{Start: "15:00"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMove(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)
	other, err := f.svc.Create(ctx, f.input("14:00", 2))
	require.NoError(t, err)

	moved, err := f.svc.Move(ctx, a.ID, MoveInput{Start: "11:00"})
	require.NoError(t, err, "overlapping its own old slot is fine")
	assert.Equal(t, 11*60, moved.Slot.Start)
	assert.Equal(t, 13*60, moved.Slot.End)

	_, err = f.svc.Move(ctx, a.ID, MoveInput{Start: "13:00"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	court2, err := f.svc.CreateCourt(ctx, f.venue.ID, "Court 2", 80_000)
	require.NoError(t, err)
	moved, err = f.svc.Move(ctx, other.ID, MoveInput{CourtID: court2.ID, Start: "14:00"})
	require.NoError(t, err)
	assert.Equal(t, court2.ID, moved.CourtID)
	assert.Equal(t, int64(100_000), moved.Price, "moving never reprices")

	_, err = f.svc.Move(ctx, 9999, MoveInput{Start: "08:00"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApplyPaymentIsIdempotentPerReference(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)

	got, err := f.svc.ApplyPayment(ctx, b.ID, "PAY-1", 40_000)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusDP, got.Status)
	assert.Equal(t, int64(40_000), got.PaidAmount)

	got, err = f.svc.ApplyPayment(ctx, b.ID, "PAY-1", 40_000)
	require.NoError(t, err)
	assert.Equal(t, int64(40_000), got.PaidAmount, "same reference applies once")

	got, err = f.svc.ApplyPayment(ctx, b.ID, "PAY-2", 60_000)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusPaid, got.Status)
	assert.Equal(t, int64(100_000), got.PaidAmount)

	_, err = f.svc.ApplyPayment(ctx, b.ID, "PAY-3", 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.ApplyPayment(ctx, 9999, "PAY-4", 10)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSettleCashPaysOutstanding(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)

	_, err = f.svc.SettleCash(ctx, b.ID, 30_000)
	require.NoError(t, err)

	got, err := f.svc.SettleCash(ctx, b.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusPaid, got.Status)
	assert.Equal(t, int64(100_000), got.PaidAmount)

	_, err = f.svc.SettleCash(ctx, b.ID, 0)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestPaymentOnCancelledBookingKeepsStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, b.ID)
	require.NoError(t, err)

	got, err := f.svc.ApplyPayment(ctx, b.ID, "PAY-late", 100_000)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, got.Status)
	assert.Equal(t, int64(100_000), got.PaidAmount)
}

func TestPriceIsImmutableAfterRateChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 2))
	require.NoError(t, err)

	rate := int64(75_000)
	_, err = f.svc.UpdateCourt(ctx, f.court.ID, venues.CourtPatch{HourlyRate: &rate})
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), got.Price)

	next, err := f.svc.Create(ctx, f.input("14:00", 2))
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), next.Price)
}

func TestConcurrentCreatesBookOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := "10:00"
			if i%2 == 1 {
				start = "11:00"
			}
			_, err := f.svc.Create(ctx, f.input(start, 2))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperr.HTTPStatus(err) == 409:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	active, err := f.store.Repos().Bookings.ListActive(ctx, f.court.ID, day)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestConcurrentMovesAndCreatesBookOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	origin := map[int64]int{}
	var movers []int64
	for _, start := range []string{"08:00", "10:00", "12:00"} {
		b, err := f.svc.Create(ctx, f.input(start, 1))
		require.NoError(t, err)
		movers = append(movers, b.ID)
		origin[b.ID] = b.Slot.Start
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	record := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err == nil:
			ok++
		case apperr.HTTPStatus(err) == 409:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	for _, id := range movers {
		wg.Add(2)
		go func(id int64) {
			defer wg.Done()
			_, err := f.svc.Move(ctx, id, MoveInput{Start: "18:00"})
			record(err)
		}(id)
		go func() {
			defer wg.Done()
			_, err := f.svc.Create(ctx, f.input("18:00", 1))
			record(err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, 2*len(movers)-1, conflicts)

	movedIn := 0
	for _, id := range movers {
		b, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		if b.Slot.Start == 18*60 {
			movedIn++
			continue
		}
		assert.Equal(t, origin[id], b.Slot.Start, "a losing move leaves the booking where it was")
	}

	active, err := f.store.Repos().Bookings.ListActive(ctx, f.court.ID, day)
	require.NoError(t, err)
	at18 := 0
	for _, b := range active {
		if b.Slot.Start == 18*60 {
			at18++
		}
	}
	assert.Equal(t, 1, at18)
	if movedIn == 1 {
		assert.Len(t, active, len(movers))
	} else {
		assert.Len(t, active, len(movers)+1, "the winning create added a booking")
	}
}

func TestListCourts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c2, err := f.svc.CreateCourt(ctx, f.venue.ID, "Court 2", 80_000)
	require.NoError(t, err)

	courts, err := f.svc.ListCourts(ctx, f.venue.ID)
	require.NoError(t, err)
	require.Len(t, courts, 2)
	assert.Equal(t, f.court.ID, courts[0].ID)
	assert.Equal(t, c2.ID, courts[1].ID)

	_, err = f.svc.ListCourts(ctx, 9999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStaleFlag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 1))
	require.NoError(t, err)
	assert.False(t, f.svc.IsStale(b))

	f.now = f.now.Add(61 * time.Minute)
	b.CreatedAt = f.now.Add(-61 * time.Minute)
	assert.True(t, f.svc.IsStale(b))

	b.PaidAmount = 10_000
	b.Status = bookings.StatusDP
	assert.False(t, f.svc.IsStale(b))
}

func TestCodesAndBoard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	b, err := f.svc.Create(ctx, f.input("10:00", 1))
	require.NoError(t, err)

	got, err := f.svc.GetByCode(ctx, f.svc.Code(b))
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.svc.GetByCode(ctx, "zzz")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	board, err := f.svc.ListForCourt(ctx, f.venue.ID, f.court.ID, day)
	require.NoError(t, err)
	assert.Len(t, board, 1)

	grid, err := f.svc.Availability(ctx, f.venue.ID, f.court.ID, day)
	require.NoError(t, err)
	assert.Len(t, grid, 17, "06:00 to 23:00")

	require.NoError(t, f.svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, b.ID), apperr.ErrNotFound)
}
