package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitOrder(id OrderID, side Side, price Ticks, qty uint64) *Order {
	return &Order{ID: id, Side: side, Kind: Limit, Price: price, Quantity: qty}
}

func marketOrder(id OrderID, side Side, qty uint64) *Order {
	return &Order{ID: id, Side: side, Kind: Market, Quantity: qty}
}

// Scenario 1: single limit placement.
func TestScenarioSingleLimitPlacement(t *testing.T) {
	b := NewBook(NewScale(0))

	o := limitOrder("1", Bid, 99, 10)
	res, err := b.PlaceOrder(o)
	require.NoError(t, err)
	assert.True(t, res.Resting)

	bestBid, ok := b.GetBestBidPrice()
	require.True(t, ok)
	assert.Equal(t, Ticks(99), bestBid)

	_, ok = b.GetBestAskPrice()
	assert.False(t, ok)

	assert.Equal(t, uint64(10), b.GetQuantityForPrice(99, Bid))
}

// Scenario 2: FIFO within a level.
func TestScenarioFIFOWithinLevel(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Bid, 99, 10))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("2", Bid, 99, 30))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("3", Bid, 99, 20))
	require.NoError(t, err)

	head, ok := b.GetBestBidOrder()
	require.True(t, ok)
	assert.Equal(t, OrderID("1"), head.ID)
	assert.Equal(t, uint64(10), head.Quantity)
	assert.Equal(t, uint64(60), b.GetQuantityForPrice(99, Bid))
}

// Scenario 3: full two-sided clearance.
func TestScenarioFullTwoSidedClearance(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Ask, 99, 10))
	require.NoError(t, err)

	bid := limitOrder("2", Bid, 99, 10)
	res, err := b.PlaceOrder(bid)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), bid.Quantity)
	assert.False(t, res.Resting)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, uint64(10), res.Trades[0].Quantity)

	_, ok := b.GetBestBidPrice()
	assert.False(t, ok)
	_, ok = b.GetBestAskPrice()
	assert.False(t, ok)

	_, ok = b.GetBestBidOrder()
	assert.False(t, ok)
	_, ok = b.GetBestAskOrder()
	assert.False(t, ok)
}

// Scenario 4: sweep across two levels.
func TestScenarioSweepAcrossTwoLevels(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Ask, 101, 10))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("2", Ask, 101, 15))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("3", Ask, 102, 20))
	require.NoError(t, err)

	bid := limitOrder("4", Bid, 102, 40)
	res, err := b.PlaceOrder(bid)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), bid.Quantity)
	assert.False(t, res.Resting)

	head, ok := b.GetBestAskOrder()
	require.True(t, ok)
	assert.Equal(t, OrderID("3"), head.ID)
	assert.Equal(t, uint64(5), head.Quantity)
	assert.Equal(t, uint64(5), b.GetQuantityForPrice(102, Ask))

	_, ok = b.GetBestBidPrice()
	assert.False(t, ok)
}

// Scenario 5: cancel from FIFO middle, then match.
func TestScenarioCancelMiddleThenMatch(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Bid, 100, 10))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("2", Bid, 100, 15))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("3", Bid, 100, 20))
	require.NoError(t, err)

	b.CancelOrder("2")

	assert.Equal(t, uint64(30), b.GetQuantityForPrice(100, Bid))
	head, ok := b.GetBestBidOrder()
	require.True(t, ok)
	assert.Equal(t, OrderID("1"), head.ID)

	ask := limitOrder("5", Ask, 100, 25)
	_, err = b.PlaceOrder(ask)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), ask.Quantity)

	head, ok = b.GetBestBidOrder()
	require.True(t, ok)
	assert.Equal(t, OrderID("3"), head.ID)
	assert.Equal(t, uint64(5), head.Quantity)
	assert.Equal(t, uint64(5), b.GetQuantityForPrice(100, Bid))
}

// Scenario 6: MARKET exhausts and discards residual.
func TestScenarioMarketExhaustsAndDiscardsResidual(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Ask, 101, 10))
	require.NoError(t, err)

	mkt := marketOrder("2", Bid, 25)
	res, err := b.PlaceOrder(mkt)
	require.NoError(t, err)

	_, ok := b.GetBestAskPrice()
	assert.False(t, ok)
	assert.False(t, res.Resting)
	assert.Equal(t, uint64(15), mkt.Quantity, "unfilled residual must be observable")

	_, indexed := b.index["2"]
	assert.False(t, indexed, "market orders never rest")
}

func TestCancelUnknownIDIsNoOp(t *testing.T) {
	b := NewBook(NewScale(0))
	assert.NotPanics(t, func() { b.CancelOrder("ghost") })
}

func TestCancelTwiceIsIdempotent(t *testing.T) {
	b := NewBook(NewScale(0))
	_, err := b.PlaceOrder(limitOrder("1", Bid, 100, 10))
	require.NoError(t, err)

	b.CancelOrder("1")
	b.CancelOrder("1")

	_, ok := b.GetBestBidPrice()
	assert.False(t, ok)
}

func TestPlaceThenCancelRestoresEmptyBook(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Bid, 100, 10))
	require.NoError(t, err)
	b.CancelOrder("1")

	_, ok := b.GetBestBidPrice()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), b.GetQuantityForPrice(100, Bid))
}

func TestDuplicateOrderIDRejected(t *testing.T) {
	b := NewBook(NewScale(0))
	_, err := b.PlaceOrder(limitOrder("1", Bid, 100, 10))
	require.NoError(t, err)

	_, err = b.PlaceOrder(limitOrder("1", Bid, 101, 5))
	assert.ErrorIs(t, err, ErrDuplicateOrderID)
}

func TestMalformedOrdersRejected(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Bid, 0, 10))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = b.PlaceOrder(limitOrder("2", Bid, 100, 0))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = b.PlaceOrder(&Order{ID: "3", Side: Bid, Kind: Trigger, Price: 100, Quantity: 10})
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestMarketAgainstEmptyBookDiscardsEverything(t *testing.T) {
	b := NewBook(NewScale(0))

	mkt := marketOrder("1", Bid, 10)
	res, err := b.PlaceOrder(mkt)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), mkt.Quantity)
	assert.False(t, res.Resting)
	assert.Empty(t, res.Trades)
}

func TestIncomingQuantityExactlyMatchesAggregateBestLevel(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Ask, 100, 10))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("2", Ask, 100, 15))
	require.NoError(t, err)

	bid := limitOrder("3", Bid, 100, 25)
	res, err := b.PlaceOrder(bid)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), bid.Quantity)
	assert.False(t, res.Resting)
	_, ok := b.GetBestAskPrice()
	assert.False(t, ok)
}

// invariant: sum of level quantities equals price_to_quantity aggregate,
// checked via quantityForPrice after a sequence of partial fills/cancels.
func TestInvariantAggregateQuantityTracksLevel(t *testing.T) {
	b := NewBook(NewScale(0))

	_, err := b.PlaceOrder(limitOrder("1", Bid, 50, 10))
	require.NoError(t, err)
	_, err = b.PlaceOrder(limitOrder("2", Bid, 50, 20))
	require.NoError(t, err)

	// Partial fill of the head via a crossing ask for less than the level.
	_, err = b.PlaceOrder(limitOrder("3", Ask, 50, 4))
	require.NoError(t, err)

	assert.Equal(t, uint64(26), b.GetQuantityForPrice(50, Bid))

	head, ok := b.GetBestBidOrder()
	require.True(t, ok)
	assert.Equal(t, OrderID("1"), head.ID)
	assert.Equal(t, uint64(6), head.Quantity)
}
