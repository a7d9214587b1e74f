package paymentsrepo

import (
	"context"
	"errors"
	"fmt"

	"arena/internal/apperr"
	"arena/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Create(ctx context.Context, p *Payment) error {
	if p.Status == "" {
		p.Status = StatusPending
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO payments (
			external_id, gateway_id, owner_kind, owner_id, method, channel,
			amount, status, display_data, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, p.ExternalID, p.GatewayID, p.OwnerKind, p.OwnerID, p.Method, p.Channel,
		p.Amount, p.Status, p.DisplayData, p.ExpiresAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("payment reference already exists")
		}
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

const paymentColumns = `
	p.id, p.external_id, p.gateway_id, p.owner_kind, p.owner_id, p.method, p.channel,
	p.amount, p.paid_amount, p.status, p.display_data, p.expires_at, p.metadata,
	p.created_at, p.updated_at`

func scanPayment(row pgx.Row) (*Payment, error) {
	var (
		p    Payment
		meta []byte
	)
	err := row.Scan(
		&p.ID, &p.ExternalID, &p.GatewayID, &p.OwnerKind, &p.OwnerID, &p.Method, &p.Channel,
		&p.Amount, &p.PaidAmount, &p.Status, &p.DisplayData, &p.ExpiresAt, &meta,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		p.Metadata = meta
	}
	return &p, nil
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.id = $1`, id)
}

func (r *Repository) GetByExternalID(ctx context.Context, externalID string) (*Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.external_id = $1`, externalID)
}

func (r *Repository) GetByExternalIDForUpdate(ctx context.Context, externalID string) (*Payment, error) {
	return r.getOne(ctx, `SELECT `+paymentColumns+` FROM payments p WHERE p.external_id = $1 FOR UPDATE`, externalID)
}

func (r *Repository) Transition(ctx context.Context, id int64, from, to Status, paidAmount *int64, metadata []byte) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE payments
		   SET status      = $3,
		       paid_amount = COALESCE($4, paid_amount),
		       metadata    = COALESCE($5::jsonb, metadata),
		       updated_at  = now()
		 WHERE id = $1 AND status = $2
	`, id, from, to, paidAmount, metadata)
	if err != nil {
		return false, fmt.Errorf("transition payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *Repository) List(ctx context.Context, f Filter) ([]*Payment, int, error) {
	var status *Status
	if f.Status != "" {
		status = &f.Status
	}

	var total int
	if err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM payments WHERE ($1::text IS NULL OR status = $1)
	`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	out, err := r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments p
		WHERE ($1::text IS NULL OR p.status = $1)
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, status, f.Limit, f.Offset)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) ListUnsettled(ctx context.Context, limit int) ([]*Payment, error) {
	return r.list(ctx, `
		SELECT `+paymentColumns+` FROM payments p
		WHERE p.status = 'PAID' AND (
			(p.owner_kind = 'booking'
			 AND EXISTS (SELECT 1 FROM bookings b WHERE b.id = p.owner_id)
			 AND NOT EXISTS (
				SELECT 1 FROM booking_settlements s
				WHERE s.booking_id = p.owner_id AND s.reference = p.external_id))
			OR
			(p.owner_kind = 'transaction'
			 AND EXISTS (
				SELECT 1 FROM transactions t
				WHERE t.id = p.owner_id AND t.status = 'PENDING'))
		)
		ORDER BY p.updated_at
		LIMIT $1
	`, limit)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
