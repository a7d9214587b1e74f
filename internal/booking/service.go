// Package booking owns the Booking lifecycle: creation, moves, payments,
// cancellation and deletion. Slot claims go through the allocator; every
// status change goes through this package.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"arena/internal/allocator"
	"arena/internal/apperr"
	"arena/internal/domain/bookings"
	"arena/internal/domain/storage"
	"arena/internal/domain/venues"
	"arena/internal/events"
	"arena/internal/interval"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultStaleAfter = 60 * time.Minute
	defaultOpen       = 6 * interval.MinutesPerHour
	defaultClose      = 23 * interval.MinutesPerHour
)

type Options struct {
	StaleAfter time.Duration
	Events     events.Publisher
	Now        func() time.Time
}

type Service struct {
	store      storage.Store
	alloc      *allocator.Allocator
	codes      *bookings.Codes
	events     events.Publisher
	logger     *zap.SugaredLogger
	now        func() time.Time
	staleAfter time.Duration
}

func NewService(store storage.Store, alloc *allocator.Allocator, codes *bookings.Codes, logger *zap.SugaredLogger, opts Options) *Service {
	s := &Service{
		store:      store,
		alloc:      alloc,
		codes:      codes,
		events:     opts.Events,
		logger:     logger,
		now:        opts.Now,
		staleAfter: opts.StaleAfter,
	}
	if s.events == nil {
		s.events = events.Noop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.staleAfter <= 0 {
		s.staleAfter = DefaultStaleAfter
	}
	return s
}

type CreateInput struct {
	VenueID  int64
	CourtID  int64
	Date     bookings.Date
	Start    string
	Duration int
	Customer bookings.Customer
}

// Create books a slot. The price is the court's current hourly rate times the
// duration and is never recomputed afterwards.
func (s *Service) Create(ctx context.Context, in CreateInput) (*bookings.Booking, error) {
	if in.Date.IsZero() {
		return nil, apperr.Validation("date is required")
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		return nil, apperr.Validation("customer name is required")
	}
	slot, err := interval.FromClock(in.Start, in.Duration)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	repos := s.store.Repos()
	_, court, err := s.locate(ctx, repos, in.VenueID, in.CourtID, slot)
	if err != nil {
		return nil, err
	}

	b := &bookings.Booking{
		VenueID:  in.VenueID,
		CourtID:  in.CourtID,
		Date:     in.Date,
		Slot:     slot,
		Customer: in.Customer,
		Price:    court.HourlyRate * int64(in.Duration),
		Status:   bookings.StatusPending,
	}

	err = s.alloc.Claim(ctx, repos.Bookings, in.VenueID, in.CourtID, in.Date, slot, 0, func() error {
		return repos.Bookings.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("booking created", "booking_id", b.ID, "court_id", b.CourtID, "date", b.Date.String(), "slot", slot.String(), "price", b.Price)
	events.Emit(ctx, s.events, s.logger, events.BookingCreated, bookingEvent(b))
	return b, nil
}

type MoveInput struct {
	CourtID int64         // zero keeps the current court
	Date    bookings.Date // zero keeps the current date
	Start   string
}

// Move relocates an active booking inside its venue. Price, paid amount and
// status are left as they are.
func (s *Service) Move(ctx context.Context, id int64, in MoveInput) (*bookings.Booking, error) {
	repos := s.store.Repos()
	b, err := s.get(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Active() {
		return nil, apperr.Validation("cancelled bookings cannot be moved")
	}

	courtID, date := b.CourtID, b.Date
	if in.CourtID != 0 {
		courtID = in.CourtID
	}
	if !in.Date.IsZero() {
		date = in.Date
	}
	slot, err := interval.FromClock(in.Start, b.DurationHours())
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	if _, _, err := s.locate(ctx, repos, b.VenueID, courtID, slot); err != nil {
		return nil, err
	}

	from := fmt.Sprintf("court %d %s %s", b.CourtID, b.Date, b.Slot)
	err = s.alloc.Claim(ctx, repos.Bookings, b.VenueID, courtID, date, slot, b.ID, func() error {
		moved, err := repos.Bookings.Relocate(ctx, b.ID, courtID, date, slot)
		if err != nil {
			return err
		}
		if !moved {
			return apperr.NotFound("booking not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	b, err = s.get(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	s.logger.Infow("booking moved", "booking_id", b.ID, "from", from, "to", fmt.Sprintf("court %d %s %s", b.CourtID, b.Date, b.Slot))
	events.Emit(ctx, s.events, s.logger, events.BookingMoved, bookingEvent(b))
	return b, nil
}

// ApplyPayment credits amount to the booking under reference. A reference is
// only ever credited once, so replaying the same confirmation is a no-op.
func (s *Service) ApplyPayment(ctx context.Context, id int64, reference string, amount int64) (*bookings.Booking, error) {
	var (
		b       *bookings.Booking
		applied bool
	)
	err := s.store.WithTx(ctx, func(r *storage.Repos) error {
		var err error
		b, applied, err = s.ApplyPaymentTx(ctx, r, id, reference, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	if applied {
		events.Emit(ctx, s.events, s.logger, events.BookingSettled, bookingEvent(b))
	}
	return b, nil
}

// ApplyPaymentTx is ApplyPayment inside the caller's transaction. It reports
// whether the reference was new.
func (s *Service) ApplyPaymentTx(ctx context.Context, r *storage.Repos, id int64, reference string, amount int64) (*bookings.Booking, bool, error) {
	if amount <= 0 {
		return nil, false, apperr.Validation("amount must be positive")
	}
	if reference == "" {
		return nil, false, apperr.Validation("payment reference is required")
	}

	b, err := r.Bookings.GetForUpdate(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, apperr.NotFound("booking not found")
	}

	added, err := r.Bookings.AddSettlement(ctx, id, reference, amount)
	if err != nil {
		return nil, false, err
	}
	if !added {
		s.logger.Infow("payment already applied", "booking_id", id, "reference", reference)
		return b, false, nil
	}

	b.PaidAmount += amount
	if b.Status.Active() {
		b.Status = bookings.StatusFor(b.PaidAmount, b.Price)
	} else {
		s.logger.Warnw("payment recorded on cancelled booking", "booking_id", id, "reference", reference, "amount", amount)
	}
	if b.PaidAmount > b.Price {
		s.logger.Infow("booking overpaid", "booking_id", id, "price", b.Price, "paid_amount", b.PaidAmount)
	}

	if err := r.Bookings.UpdatePayment(ctx, id, b.PaidAmount, b.Status); err != nil {
		return nil, false, err
	}
	b.UpdatedAt = s.now()
	return b, true, nil
}

// SettleCash records a cash payment at the desk. A non-positive amount
// settles whatever is still outstanding.
func (s *Service) SettleCash(ctx context.Context, id int64, amount int64) (*bookings.Booking, error) {
	if amount <= 0 {
		b, err := s.get(ctx, s.store.Repos(), id)
		if err != nil {
			return nil, err
		}
		amount = b.Outstanding()
		if amount == 0 {
			return nil, apperr.Validation("booking is already paid in full")
		}
	}
	return s.ApplyPayment(ctx, id, "CASH-"+uuid.NewString(), amount)
}

// Cancel frees the slot. Cancelling twice is harmless.
func (s *Service) Cancel(ctx context.Context, id int64) (*bookings.Booking, error) {
	repos := s.store.Repos()
	b, err := s.get(ctx, repos, id)
	if err != nil {
		return nil, err
	}
	if b.Status == bookings.StatusCancelled {
		return b, nil
	}
	if err := repos.Bookings.SetStatus(ctx, id, bookings.StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = bookings.StatusCancelled
	b.UpdatedAt = s.now()

	s.logger.Infow("booking cancelled", "booking_id", id, "paid_amount", b.PaidAmount)
	events.Emit(ctx, s.events, s.logger, events.BookingCancelled, bookingEvent(b))
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.store.Repos().Bookings.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("booking not found")
	}
	s.logger.Infow("booking deleted", "booking_id", id)
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*bookings.Booking, error) {
	return s.get(ctx, s.store.Repos(), id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*bookings.Booking, error) {
	id, ok := s.codes.Decode(code)
	if !ok {
		return nil, apperr.NotFound("booking not found")
	}
	return s.Get(ctx, id)
}

func (s *Service) Code(b *bookings.Booking) string { return s.codes.Encode(b.ID) }

// IsStale flags unpaid bookings older than the configured window. It is only
// a hint for the desk; nothing cancels stale bookings automatically.
func (s *Service) IsStale(b *bookings.Booking) bool {
	return b.Status == bookings.StatusPending && b.PaidAmount == 0 && s.now().Sub(b.CreatedAt) > s.staleAfter
}

// ListForCourt returns the day board of a court, cancelled bookings included.
func (s *Service) ListForCourt(ctx context.Context, venueID, courtID int64, date bookings.Date) ([]*bookings.Booking, error) {
	repos := s.store.Repos()
	if _, err := s.court(ctx, repos, venueID, courtID); err != nil {
		return nil, err
	}
	return repos.Bookings.ListByCourtDate(ctx, courtID, date)
}

// Availability is the hourly grid between the venue's opening hours.
func (s *Service) Availability(ctx context.Context, venueID, courtID int64, date bookings.Date) ([]allocator.Slot, error) {
	repos := s.store.Repos()
	venue, err := s.venue(ctx, repos, venueID)
	if err != nil {
		return nil, err
	}
	if _, err := s.court(ctx, repos, venueID, courtID); err != nil {
		return nil, err
	}
	openMin, closeMin := venue.Hours(defaultOpen, defaultClose)
	return s.alloc.Grid(ctx, repos.Bookings, courtID, date, openMin, closeMin, interval.MinutesPerHour)
}

func (s *Service) get(ctx context.Context, r *storage.Repos, id int64) (*bookings.Booking, error) {
	b, err := r.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.NotFound("booking not found")
	}
	return b, nil
}

func (s *Service) venue(ctx context.Context, r *storage.Repos, venueID int64) (*venues.Venue, error) {
	v, err := r.Venues.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("venue not found")
	}
	return v, nil
}

func (s *Service) court(ctx context.Context, r *storage.Repos, venueID, courtID int64) (*venues.Court, error) {
	c, err := r.Venues.GetCourt(ctx, courtID)
	if err != nil {
		return nil, err
	}
	if c == nil || c.VenueID != venueID {
		return nil, apperr.NotFound("court not found")
	}
	return c, nil
}

// locate checks that the court exists in the venue, is bookable, and that
// slot respects the venue's operating hours.
func (s *Service) locate(ctx context.Context, r *storage.Repos, venueID, courtID int64, slot interval.Interval) (*venues.Venue, *venues.Court, error) {
	v, err := s.venue(ctx, r, venueID)
	if err != nil {
		return nil, nil, err
	}
	c, err := s.court(ctx, r, venueID, courtID)
	if err != nil {
		return nil, nil, err
	}
	if !c.IsActive {
		return nil, nil, apperr.Validation("court is not active")
	}
	if !v.Admits(slot) {
		return nil, nil, apperr.Validation(fmt.Sprintf("slot %s is outside operating hours", slot))
	}
	return v, c, nil
}

func bookingEvent(b *bookings.Booking) events.Booking {
	return events.Booking{
		BookingID:  b.ID,
		VenueID:    b.VenueID,
		CourtID:    b.CourtID,
		Date:       b.Date.String(),
		Start:      interval.FormatClock(b.Slot.Start),
		End:        interval.FormatClock(b.Slot.End),
		Status:     string(b.Status),
		Price:      b.Price,
		PaidAmount: b.PaidAmount,
	}
}
