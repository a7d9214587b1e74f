package venues

import (
	"context"
	"time"

	"arena/internal/interval"
)

// Venue is a physical location with one or more courts. OpenMin/CloseMin are
// minutes since midnight; nil means bookings are not restricted to hours.
type Venue struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OpenMin   *int      `json:"open_min,omitempty"`
	CloseMin  *int      `json:"close_min,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Hours returns the operating window, falling back to def when the venue has none.
func (v *Venue) Hours(defOpen, defClose int) (int, int) {
	if v.OpenMin == nil || v.CloseMin == nil {
		return defOpen, defClose
	}
	return *v.OpenMin, *v.CloseMin
}

// Restricted reports whether the venue declares operating hours.
func (v *Venue) Restricted() bool { return v.OpenMin != nil && v.CloseMin != nil }

// Admits reports whether slot falls inside the operating hours.
func (v *Venue) Admits(slot interval.Interval) bool {
	if !v.Restricted() {
		return true
	}
	return slot.Within(*v.OpenMin, *v.CloseMin)
}

// Court is a bookable unit. HourlyRate is in minor currency units.
type Court struct {
	ID         int64     `json:"id"`
	VenueID    int64     `json:"venue_id"`
	Name       string    `json:"name"`
	HourlyRate int64     `json:"hourly_rate"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CourtPatch struct {
	HourlyRate *int64
	IsActive   *bool
	Name       *string
}

// Store returns nil, nil for missing rows.
type Store interface {
	CreateVenue(ctx context.Context, v *Venue) error
	GetVenue(ctx context.Context, id int64) (*Venue, error)
	CreateCourt(ctx context.Context, c *Court) error
	GetCourt(ctx context.Context, id int64) (*Court, error)
	ListCourts(ctx context.Context, venueID int64) ([]*Court, error)
	UpdateCourt(ctx context.Context, id int64, patch CourtPatch) (*Court, error)
}
