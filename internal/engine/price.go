package engine

import (
	"github.com/shopspring/decimal"
)

// Ticks is the canonical internal price representation: an integer number of
// minimum price increments. Keying the level map and price heap on this
// integer, rather than on decimal.Decimal directly, means two decimal
// encodings of the same price ("1.50" vs "1.5000") normalize to the same key.
type Ticks int64

// Scale converts between client-facing decimal.Decimal prices and the
// engine's canonical Ticks. It is fixed for the lifetime of a Book.
type Scale struct {
	places int32
	factor decimal.Decimal
}

// NewScale builds a Scale with the given number of decimal places of
// precision (e.g. places=4 means prices resolve to 1/10000ths).
func NewScale(places int32) Scale {
	return Scale{
		places: places,
		factor: decimal.New(1, places),
	}
}

// ToTicks normalizes a decimal price to its canonical tick count. Rounds to
// the nearest tick rather than truncating, so a caller-supplied price that is
// already tick-aligned round-trips exactly.
func (s Scale) ToTicks(price decimal.Decimal) Ticks {
	return Ticks(price.Mul(s.factor).Round(0).IntPart())
}

// FromTicks converts a canonical tick count back to a decimal price.
func (s Scale) FromTicks(t Ticks) decimal.Decimal {
	return decimal.NewFromInt(int64(t)).DivRound(s.factor, s.places)
}
