package bookings

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.March, 14), d)

	b, err := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2026-03-14"}`, string(b))

	_, err = ParseDate("14/03/2026")
	assert.Error(t, err)
}

func TestDateOfIgnoresClock(t *testing.T) {
	loc := time.FixedZone("WIB", 7*3600)
	a := DateOf(time.Date(2026, 1, 2, 23, 59, 0, 0, loc))
	b := DateOf(time.Date(2026, 1, 2, 0, 1, 0, 0, time.UTC))
	assert.Equal(t, a, b, "dates must be comparable with ==")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusPending, StatusFor(0, 100_000))
	assert.Equal(t, StatusDP, StatusFor(40_000, 100_000))
	assert.Equal(t, StatusPaid, StatusFor(100_000, 100_000))
	assert.Equal(t, StatusPaid, StatusFor(120_000, 100_000))
}

func TestCodes(t *testing.T) {
	c, err := NewCodes("test-salt")
	require.NoError(t, err)

	code := c.Encode(42)
	assert.GreaterOrEqual(t, len(code), 8)

	id, ok := c.Decode(code)
	require.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = c.Decode("not-a-code!")
	assert.False(t, ok)
}
