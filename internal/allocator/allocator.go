// Package allocator decides whether a slot on a court can be claimed.
//
// The check here is advisory. Two requests can both pass it before either
// commits; the bookings_no_overlap exclusion constraint is what finally
// rejects the loser, and the repositories report that as apperr.ErrConflict
// so callers see one outcome for both layers.
package allocator

import (
	"context"
	"errors"
	"fmt"

	"arena/internal/apperr"
	"arena/internal/domain/bookings"
	"arena/internal/interval"

	"go.uber.org/zap"
)

// Lister loads the bookings that currently hold slots on a court.
type Lister interface {
	ListActive(ctx context.Context, courtID int64, date bookings.Date) ([]*bookings.Booking, error)
}

type Result struct {
	Available            bool   `json:"available"`
	ConflictingBookingID *int64 `json:"conflicting_booking_id,omitempty"`
}

type Allocator struct {
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger) *Allocator {
	return &Allocator{logger: logger}
}

// CheckAvailability reports whether candidate is free on (courtID, date).
// excludeID (0 for none) is ignored so a booking can be moved within its own
// current slot.
func (a *Allocator) CheckAvailability(ctx context.Context, l Lister, venueID, courtID int64, date bookings.Date, candidate interval.Interval, excludeID int64) (Result, error) {
	if err := candidate.Validate(); err != nil {
		return Result{}, apperr.Validation(err.Error())
	}

	existing, err := l.ListActive(ctx, courtID, date)
	if err != nil {
		return Result{}, fmt.Errorf("load bookings for court %d on %s: %w", courtID, date, err)
	}

	for _, b := range existing {
		if b.ID == excludeID || !b.Status.Active() || b.VenueID != venueID {
			continue
		}
		if interval.Overlaps(b.Slot, candidate) {
			id := b.ID
			a.logger.Debugw("slot unavailable",
				"court_id", courtID, "date", date.String(),
				"candidate", candidate.String(), "conflicting_booking_id", id)
			return Result{Available: false, ConflictingBookingID: &id}, nil
		}
	}
	return Result{Available: true}, nil
}

// Claim runs the advisory check and then commit. A constraint violation
// raised by commit is already a conflict; any other error is passed through.
func (a *Allocator) Claim(ctx context.Context, l Lister, venueID, courtID int64, date bookings.Date, candidate interval.Interval, excludeID int64, commit func() error) error {
	res, err := a.CheckAvailability(ctx, l, venueID, courtID, date, candidate, excludeID)
	if err != nil {
		return err
	}
	if !res.Available {
		return apperr.Conflict(bookings.SlotTaken)
	}

	if err := commit(); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			a.logger.Infow("slot taken at commit", "court_id", courtID, "date", date.String(), "candidate", candidate.String())
		}
		return err
	}
	return nil
}

// Slot is one cell of the availability grid.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Available bool   `json:"available"`
}

// Grid splits [openMin, closeMin) into step-minute slots and marks each one free or
// taken using the same overlap predicate as CheckAvailability.
func (a *Allocator) Grid(ctx context.Context, l Lister, courtID int64, date bookings.Date, openMin, closeMin, step int) ([]Slot, error) {
	if step <= 0 {
		step = interval.MinutesPerHour
	}
	existing, err := l.ListActive(ctx, courtID, date)
	if err != nil {
		return nil, fmt.Errorf("load bookings for court %d on %s: %w", courtID, date, err)
	}

	var out []Slot
	for start := openMin; start+step <= closeMin; start += step {
		cell := interval.Interval{Start: start, End: start + step}
		free := true
		for _, b := range existing {
			if b.Status.Active() && interval.Overlaps(b.Slot, cell) {
				free = false
				break
			}
		}
		out = append(out, Slot{
			Start:     interval.FormatClock(cell.Start),
			End:       interval.FormatClock(cell.End),
			Available: free,
		})
	}
	return out, nil
}
