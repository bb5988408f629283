package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScaleRoundTrip(t *testing.T) {
	s := NewScale(4)

	cases := []string{"99", "99.0001", "100.5", "0.0001"}
	for _, c := range cases {
		d, err := decimal.NewFromString(c)
		assert.NoError(t, err)

		ticks := s.ToTicks(d)
		back := s.FromTicks(ticks)
		assert.True(t, d.Equal(back), "round-trip for %s: got %s", c, back)
	}
}

func TestScaleNormalizesEquivalentDecimals(t *testing.T) {
	s := NewScale(4)

	a := decimal.RequireFromString("1.50")
	bv := decimal.RequireFromString("1.5000")

	assert.False(t, a == bv, "decimal values are expected to differ structurally")
	assert.Equal(t, s.ToTicks(a), s.ToTicks(bv), "ticks must collide regardless of decimal encoding")
}
