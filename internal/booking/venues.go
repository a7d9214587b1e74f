package booking

import (
	"context"
	"strings"

	"arena/internal/apperr"
	"arena/internal/domain/venues"
	"arena/internal/interval"
)

type VenueInput struct {
	Name  string
	Open  string // "HH:MM", optional
	Close string // "HH:MM", optional
}

func (s *Service) CreateVenue(ctx context.Context, in VenueInput) (*venues.Venue, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Validation("venue name is required")
	}
	v := &venues.Venue{Name: in.Name}

	if in.Open != "" || in.Close != "" {
		open, err := interval.ParseClock(in.Open)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		closeMin, err := interval.ParseClock(in.Close)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		if closeMin <= open {
			return nil, apperr.Validation("closing time must be after opening time")
		}
		v.OpenMin, v.CloseMin = &open, &closeMin
	}

	if err := s.store.Repos().Venues.CreateVenue(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) CreateCourt(ctx context.Context, venueID int64, name string, hourlyRate int64) (*venues.Court, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("court name is required")
	}
	if hourlyRate < 0 {
		return nil, apperr.Validation("hourly rate cannot be negative")
	}
	repos := s.store.Repos()
	if _, err := s.venue(ctx, repos, venueID); err != nil {
		return nil, err
	}

	c := &venues.Court{VenueID: venueID, Name: name, HourlyRate: hourlyRate, IsActive: true}
	if err := repos.Venues.CreateCourt(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCourt changes a court. A new rate only applies to bookings made after it.
func (s *Service) UpdateCourt(ctx context.Context, courtID int64, patch venues.CourtPatch) (*venues.Court, error) {
	if patch.HourlyRate != nil && *patch.HourlyRate < 0 {
		return nil, apperr.Validation("hourly rate cannot be negative")
	}
	c, err := s.store.Repos().Venues.UpdateCourt(ctx, courtID, patch)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("court not found")
	}
	s.logger.Infow("court updated", "court_id", c.ID, "hourly_rate", c.HourlyRate, "is_active", c.IsActive)
	return c, nil
}

// ListCourts returns every court of a venue, inactive ones included.
func (s *Service) ListCourts(ctx context.Context, venueID int64) ([]*venues.Court, error) {
	repos := s.store.Repos()
	if _, err := s.venue(ctx, repos, venueID); err != nil {
		return nil, err
	}
	courts, err := repos.Venues.ListCourts(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if courts == nil {
		courts = []*venues.Court{}
	}
	return courts, nil
}
