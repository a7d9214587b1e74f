package params

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	p := ParsePagination(url.Values{"page": {"3"}, "limit": {"10"}})
	assert.Equal(t, Pagination{Limit: 10, Page: 3, Offset: 20}, p)

	p = ParsePagination(url.Values{"page": {"-1"}, "limit": {"1000"}})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)

	p = ParsePagination(url.Values{"limit": {"abc"}})
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Zero(t, p.Offset)
}

func TestComputeMeta(t *testing.T) {
	p := ParsePagination(url.Values{"page": {"2"}, "limit": {"10"}})
	p.ComputeMeta(25)

	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrev)
	assert.True(t, p.HasNext)

	p.ComputeMeta(20)
	assert.False(t, p.HasNext)
}
