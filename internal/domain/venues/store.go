package venues

import (
	"context"
	"errors"
	"fmt"

	"arena/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) CreateVenue(ctx context.Context, v *Venue) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO venues (name, open_min, close_min)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, v.Name, v.OpenMin, v.CloseMin).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

func (r *Repository) GetVenue(ctx context.Context, id int64) (*Venue, error) {
	var v Venue
	err := r.q.QueryRow(ctx, `
		SELECT id, name, open_min, close_min, created_at
		FROM venues WHERE id = $1
	`, id).Scan(&v.ID, &v.Name, &v.OpenMin, &v.CloseMin, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venue: %w", err)
	}
	return &v, nil
}

func (r *Repository) CreateCourt(ctx context.Context, c *Court) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO courts (venue_id, name, hourly_rate, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.VenueID, c.Name, c.HourlyRate, c.IsActive).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create court: %w", err)
	}
	return nil
}

const courtColumns = `id, venue_id, name, hourly_rate, is_active, created_at, updated_at`

func scanCourt(row pgx.Row) (*Court, error) {
	var c Court
	if err := row.Scan(&c.ID, &c.VenueID, &c.Name, &c.HourlyRate, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) GetCourt(ctx context.Context, id int64) (*Court, error) {
	c, err := scanCourt(r.q.QueryRow(ctx, `SELECT `+courtColumns+` FROM courts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get court: %w", err)
	}
	return c, nil
}

func (r *Repository) ListCourts(ctx context.Context, venueID int64) ([]*Court, error) {
	rows, err := r.q.Query(ctx, `SELECT `+courtColumns+` FROM courts WHERE venue_id = $1 ORDER BY id`, venueID)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}
	defer rows.Close()

	var out []*Court
	for rows.Next() {
		c, err := scanCourt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan court: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateCourt applies the non-nil fields of patch. Existing bookings keep the
// price they were created with.
func (r *Repository) UpdateCourt(ctx context.Context, id int64, patch CourtPatch) (*Court, error) {
	c, err := scanCourt(r.q.QueryRow(ctx, `
		UPDATE courts
		   SET hourly_rate = COALESCE($2, hourly_rate),
		       is_active   = COALESCE($3, is_active),
		       name        = COALESCE($4, name),
		       updated_at  = now()
		 WHERE id = $1
		RETURNING `+courtColumns, id, patch.HourlyRate, patch.IsActive, patch.Name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update court: %w", err)
	}
	return c, nil
}
