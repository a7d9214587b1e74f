package bookings

import (
	"context"
	"errors"
	"fmt"

	"arena/internal/apperr"
	"arena/internal/infra/dbx"
	"arena/internal/interval"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// SlotTaken is the conflict message for an overlapping slot.
const SlotTaken = "court is already booked for that time"

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

// slotConflict maps the overlap constraint to a conflict so the race between
// two concurrent creates surfaces the same way as the advisory check.
func slotConflict(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation, pgUniqueViolation:
			return apperr.Conflict(SlotTaken)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (r *Repository) Create(ctx context.Context, b *Booking) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO bookings (
			venue_id, court_id, booking_date, start_min, end_min,
			customer_name, customer_phone, customer_id,
			price, paid_amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, b.VenueID, b.CourtID, b.Date, b.Slot.Start, b.Slot.End,
		b.Customer.Name, b.Customer.Phone, b.Customer.CustomerID,
		b.Price, b.PaidAmount, b.Status,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return slotConflict(err, "create booking")
	}
	return nil
}

const bookingColumns = `
	id, venue_id, court_id, booking_date, start_min, end_min,
	customer_name, customer_phone, customer_id,
	price, paid_amount, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.VenueID, &b.CourtID, &b.Date, &b.Slot.Start, &b.Slot.End,
		&b.Customer.Name, &b.Customer.Phone, &b.Customer.CustomerID,
		&b.Price, &b.PaidAmount, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) get(ctx context.Context, query string, id int64) (*Booking, error) {
	b, err := scanBooking(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *Repository) GetForUpdate(ctx context.Context, id int64) (*Booking, error) {
	return r.get(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Booking, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) ListActive(ctx context.Context, courtID int64, date Date) ([]*Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE court_id = $1 AND booking_date = $2 AND status <> 'CANCELLED'
		ORDER BY start_min
	`, courtID, date)
}

func (r *Repository) ListByCourtDate(ctx context.Context, courtID int64, date Date) ([]*Booking, error) {
	return r.list(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE court_id = $1 AND booking_date = $2
		ORDER BY start_min, id
	`, courtID, date)
}

func (r *Repository) Relocate(ctx context.Context, id, courtID int64, date Date, slot interval.Interval) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE bookings
		   SET court_id = $2, booking_date = $3, start_min = $4, end_min = $5, updated_at = now()
		 WHERE id = $1 AND status <> 'CANCELLED'
	`, id, courtID, date, slot.Start, slot.End)
	if err != nil {
		return false, slotConflict(err, "move booking")
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) UpdatePayment(ctx context.Context, id, paidAmount int64, status Status) error {
	_, err := r.q.Exec(ctx, `
		UPDATE bookings SET paid_amount = $2, status = $3, updated_at = now() WHERE id = $1
	`, id, paidAmount, status)
	if err != nil {
		return fmt.Errorf("update booking payment: %w", err)
	}
	return nil
}

func (r *Repository) SetStatus(ctx context.Context, id int64, status Status) error {
	_, err := r.q.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

func (r *Repository) AddSettlement(ctx context.Context, id int64, reference string, amount int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO booking_settlements (booking_id, reference, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (booking_id, reference) DO NOTHING
	`, id, reference, amount)
	if err != nil {
		return false, fmt.Errorf("record settlement: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
