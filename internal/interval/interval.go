// Package interval models a booking slot as a half-open range of the day.
//
// Bounds are kept in whole minutes since midnight so that "10:20" + 2h and a
// parsed "12:20" compare equal; fractional hours are only a presentation
// format (StartHours, EndHours, FromHours).
package interval

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	MinutesPerHour = 60
	DayMinutes     = 24 * MinutesPerHour
)

var ErrInvalid = errors.New("invalid interval")

// Interval is [Start, End) in minutes since midnight.
type Interval struct {
	Start int `json:"start_min"`
	End   int `json:"end_min"`
}

// New builds the slot that starts at startMin and lasts durationHours.
func New(startMin, durationHours int) (Interval, error) {
	if durationHours <= 0 {
		return Interval{}, fmt.Errorf("%w: duration must be a positive number of hours", ErrInvalid)
	}
	iv := Interval{Start: startMin, End: startMin + durationHours*MinutesPerHour}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// FromClock is New with an "HH:MM" start.
func FromClock(start string, durationHours int) (Interval, error) {
	m, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	return New(m, durationHours)
}

// FromHours converts fractional hours (10.5 == 10:30) rounding to the minute.
func FromHours(start, end float64) Interval {
	return Interval{
		Start: int(math.Round(start * MinutesPerHour)),
		End:   int(math.Round(end * MinutesPerHour)),
	}
}

// Validate checks the slot is non-empty and stays inside one calendar day.
func (i Interval) Validate() error {
	if i.Start < 0 || i.Start >= DayMinutes {
		return fmt.Errorf("%w: start %d out of day", ErrInvalid, i.Start)
	}
	if i.End <= i.Start {
		return fmt.Errorf("%w: end must be after start", ErrInvalid)
	}
	if i.End > DayMinutes {
		return fmt.Errorf("%w: slot crosses midnight", ErrInvalid)
	}
	return nil
}

// Overlaps reports whether a and b share any minute. Touching slots
// ([8,10) and [10,12)) do not overlap. The Postgres exclusion constraint uses
// int4range(start_min, end_min, '[)') && which is the same predicate.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

func (i Interval) Overlaps(o Interval) bool { return Overlaps(i, o) }

// Within reports whether i lies inside [open, close).
func (i Interval) Within(open, close int) bool {
	return i.Start >= open && i.End <= close
}

func (i Interval) DurationMinutes() int { return i.End - i.Start }

func (i Interval) StartHours() float64 { return float64(i.Start) / MinutesPerHour }

func (i Interval) EndHours() float64 { return float64(i.End) / MinutesPerHour }

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", FormatClock(i.Start), FormatClock(i.End))
}

// ParseClock parses "HH:MM" (or "HH:MM:SS", seconds ignored) into minutes
// since midnight. "24:00" is accepted as the end of day.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: clock %q must be HH:MM", ErrInvalid, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: clock %q: %v", ErrInvalid, s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: clock %q: %v", ErrInvalid, s, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: clock %q out of range", ErrInvalid, s)
	}
	return h*MinutesPerHour + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/MinutesPerHour, min%MinutesPerHour)
}
