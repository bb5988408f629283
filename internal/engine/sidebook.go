package engine

// sideBook holds every resting order on one side (Bid or Ask): a price→level
// map (each level tracks its own aggregate quantity) and a lazily-cleaned
// best-price heap.
type sideBook struct {
	side    Side
	levels  map[Ticks]*priceLevel
	heap    *priceHeap
}

func newSideBook(side Side) *sideBook {
	return &sideBook{
		side:   side,
		levels: make(map[Ticks]*priceLevel),
		heap:   newPriceHeap(side == Bid),
	}
}

// add enqueues a resting limit order, creating its price level if this is
// the first order at that price.
func (b *sideBook) add(o *Order) {
	lvl, ok := b.levels[o.Price]
	if !ok {
		lvl = newPriceLevel()
		b.levels[o.Price] = lvl
		b.heap.pushPrice(o.Price)
	}
	lvl.push(o)
}

// deleteOrder removes a resting order from its level, dropping the level
// entirely (but not the stale heap key; see cleanup) once it empties.
func (b *sideBook) deleteOrder(o *Order) {
	lvl, ok := b.levels[o.Price]
	if !ok {
		return
	}
	lvl.remove(o.ID)
	if lvl.isEmpty() {
		delete(b.levels, o.Price)
	}
}

// decreaseOrderQuantity shrinks a resting order without removing it.
func (b *sideBook) decreaseOrderQuantity(o *Order, delta uint64) {
	lvl, ok := b.levels[o.Price]
	if !ok {
		return
	}
	lvl.decreaseQuantity(o.ID, delta)
}

// cleanup repeatedly pops stale heap roots (prices whose level is gone or
// empty) until the root names a live level, or the heap empties. This is the
// sole place heap entries are ever removed.
func (b *sideBook) cleanup() {
	for {
		p, ok := b.heap.top()
		if !ok {
			return
		}
		lvl, exists := b.levels[p]
		if exists && !lvl.isEmpty() {
			return
		}
		b.heap.popTop()
	}
}

// bestOrder returns the head of the best price level, after cleanup.
func (b *sideBook) bestOrder() (*Order, bool) {
	b.cleanup()
	p, ok := b.heap.top()
	if !ok {
		return nil, false
	}
	lvl := b.levels[p]
	return lvl.peek(), true
}

// bestPrice returns the best resting price, after cleanup.
func (b *sideBook) bestPrice() (Ticks, bool) {
	b.cleanup()
	return b.heap.top()
}

// quantityForPrice returns the aggregate resting quantity at p, or zero if
// the level is absent.
func (b *sideBook) quantityForPrice(p Ticks) uint64 {
	lvl, ok := b.levels[p]
	if !ok {
		return 0
	}
	return lvl.qty
}
