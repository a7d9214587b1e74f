package bookings

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

// Codes turns booking ids into short public codes that can be read out at
// the front desk without exposing the sequence.
type Codes struct{ h *hashids.HashID }

func NewCodes(salt string) (*Codes, error) {
	d := hashids.NewData()
	d.Salt = salt
	d.MinLength = 8
	h, err := hashids.NewWithData(d)
	if err != nil {
		return nil, fmt.Errorf("init booking codes: %w", err)
	}
	return &Codes{h: h}, nil
}

func (c *Codes) Encode(id int64) string {
	s, err := c.h.EncodeInt64([]int64{id})
	if err != nil {
		return ""
	}
	return s
}

// Decode returns false for anything that is not a single encoded id.
func (c *Codes) Decode(code string) (int64, bool) {
	ids, err := c.h.DecodeInt64WithError(code)
	if err != nil || len(ids) != 1 {
		return 0, false
	}
	return ids[0], true
}
