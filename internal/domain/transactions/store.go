package transactions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"arena/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Create(ctx context.Context, t *Transaction) error {
	if t.Status == "" {
		t.Status = StatusPending
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO transactions (venue_id, booking_id, total, paid_amount, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, t.VenueID, t.BookingID, t.Total, t.PaidAmount, t.Status).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

const txColumns = `id, venue_id, booking_id, total, paid_amount, status, paid_at, created_at`

func scanTx(row pgx.Row) (*Transaction, error) {
	var t Transaction
	if err := row.Scan(&t.ID, &t.VenueID, &t.BookingID, &t.Total, &t.PaidAmount, &t.Status, &t.PaidAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Transaction, error) {
	t, err := scanTx(r.q.QueryRow(ctx, `SELECT `+txColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *Repository) MarkPaid(ctx context.Context, id, paidAmount int64, at time.Time) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE transactions
		   SET status = 'PAID', paid_amount = $2, paid_at = $3
		 WHERE id = $1 AND status = 'PENDING'
	`, id, paidAmount, at)
	if err != nil {
		return false, fmt.Errorf("mark transaction paid: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
