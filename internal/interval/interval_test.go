package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(start, end float64) Interval { return FromHours(start, end) }

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"adjacent after", hours(8, 10), hours(10, 12), false},
		{"adjacent before", hours(10, 12), hours(8, 10), false},
		{"partial", hours(8, 10), hours(9, 11), true},
		{"contained", hours(8, 12), hours(9, 10), true},
		{"identical", hours(10, 12), hours(10, 12), true},
		{"disjoint", hours(6, 7), hours(20, 22), false},
		{"half hour overlap", hours(10.5, 11.5), hours(11, 12), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Overlaps(c.a, c.b))
			assert.Equal(t, c.want, c.b.Overlaps(c.a), "overlap must be symmetric")
		})
	}
}

func TestFromClockEndMatchesParsedClock(t *testing.T) {
	iv, err := FromClock("10:20", 2)
	require.NoError(t, err)

	end, err := ParseClock("12:20")
	require.NoError(t, err)
	assert.Equal(t, end, iv.End)

	next, err := FromClock("12:20", 1)
	require.NoError(t, err)
	assert.False(t, Overlaps(iv, next))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(600, 0)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = New(23*60, 2)
	assert.ErrorIs(t, err, ErrInvalid, "slot may not cross midnight")

	_, err = New(-30, 1)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 465, m)

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, DayMinutes, m)

	m, err = ParseClock("09:30:59")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	for _, bad := range []string{"", "9", "25:00", "10:75", "24:30", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalid, bad)
	}
}

func TestHoursAndFormatting(t *testing.T) {
	iv, err := FromClock("10:30", 2)
	require.NoError(t, err)

	assert.InDelta(t, 10.5, iv.StartHours(), 1e-9)
	assert.InDelta(t, 12.5, iv.EndHours(), 1e-9)
	assert.Equal(t, "[10:30, 12:30)", iv.String())
	assert.True(t, iv.Within(6*60, 23*60))
	assert.False(t, iv.Within(11*60, 23*60))
}
