package engine

// Book is a single-instrument price-time priority matching engine. It owns
// both side books and the global id→order index. A Book is not safe for
// concurrent use: PlaceOrder and CancelOrder must be serialized by the
// caller; this type holds no mutex of its own.
type Book struct {
	bids  *sideBook
	asks  *sideBook
	index map[OrderID]*Order
	scale Scale
}

// NewBook creates an empty book. scale fixes how client-facing decimal
// prices (see price.go) normalize to this book's canonical Ticks.
func NewBook(scale Scale) *Book {
	return &Book{
		bids:  newSideBook(Bid),
		asks:  newSideBook(Ask),
		index: make(map[OrderID]*Order),
		scale: scale,
	}
}

// Scale returns the book's price scale, for callers converting to/from
// decimal prices.
func (b *Book) Scale() Scale { return b.scale }

func (b *Book) opposite(side Side) *sideBook {
	if side == Bid {
		return b.asks
	}
	return b.bids
}

func (b *Book) home(side Side) *sideBook {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

// PlaceOrder runs the matching algorithm against o, the incoming order. It
// mutates o.Quantity in place, so a Market order's unfilled residual is
// visible to the caller, and returns a PlaceResult describing what happened.
// See errors.go for the validation taxonomy; on any validation error the
// book is left untouched.
func (b *Book) PlaceOrder(o *Order) (PlaceResult, error) {
	if err := o.validate(); err != nil {
		return PlaceResult{}, err
	}
	if _, exists := b.index[o.ID]; exists {
		return PlaceResult{}, ErrDuplicateOrderID
	}

	startQty := o.Quantity
	opp := b.opposite(o.Side)

	var trades []Trade
	for o.Quantity > 0 {
		resting, ok := opp.bestOrder()
		if !ok {
			break
		}
		if o.Kind == Limit && !o.crosses(o.Side, resting.Price) {
			break
		}

		t := min(o.Quantity, resting.Quantity)

		if o.Quantity >= resting.Quantity {
			opp.deleteOrder(resting)
			delete(b.index, resting.ID)
			o.Quantity -= t
			resting.Quantity = 0
		} else {
			opp.decreaseOrderQuantity(resting, t)
			o.Quantity -= t
		}

		trades = append(trades, Trade{
			IncomingOrderID: o.ID,
			RestingOrderID:  resting.ID,
			Price:           resting.Price,
			Quantity:        t,
		})
	}

	result := PlaceResult{
		FilledQty:   startQty - o.Quantity,
		ResidualQty: o.Quantity,
		Trades:      trades,
	}

	if o.Kind == Limit && o.Quantity > 0 {
		b.home(o.Side).add(o)
		b.index[o.ID] = o
		result.Resting = true
	}
	// Market orders never rest: any residual is discarded here, already
	// reflected in o.Quantity for the caller to observe.

	return result, nil
}

// CancelOrder removes a resting order by id. Unknown or already-settled ids
// are a silent no-op; cancellation races with fills by design.
func (b *Book) CancelOrder(id OrderID) {
	o, ok := b.index[id]
	if !ok {
		return
	}
	b.home(o.Side).deleteOrder(o)
	delete(b.index, id)
}

// GetBestBidOrder returns the order at the head of the best bid level.
func (b *Book) GetBestBidOrder() (*Order, bool) { return b.bids.bestOrder() }

// GetBestAskOrder returns the order at the head of the best ask level.
func (b *Book) GetBestAskOrder() (*Order, bool) { return b.asks.bestOrder() }

// GetBestBidPrice returns the best (highest) resting bid price, or false if
// the bid side is empty.
func (b *Book) GetBestBidPrice() (Ticks, bool) { return b.bids.bestPrice() }

// GetBestAskPrice returns the best (lowest) resting ask price, or false if
// the ask side is empty.
func (b *Book) GetBestAskPrice() (Ticks, bool) { return b.asks.bestPrice() }

// GetQuantityForPrice returns the aggregate resting quantity at p on side s;
// zero if no orders rest there.
func (b *Book) GetQuantityForPrice(p Ticks, side Side) uint64 {
	return b.home(side).quantityForPrice(p)
}
