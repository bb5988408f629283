package engine

import "container/heap"

// priceHeap is a binary heap of the prices at which levels were created on
// one side, ordered so the root is the most aggressive price: the max flag
// flips Less so bids get a max-heap and asks a min-heap. May hold stale
// entries whose level has since emptied (and a price can appear twice if its
// level is recreated before the stale key is cleaned up); those are skipped
// at read time, never removed eagerly.
type priceHeap struct {
	keys []Ticks
	max  bool // true for bids (max-heap), false for asks (min-heap)
}

func newPriceHeap(max bool) *priceHeap {
	return &priceHeap{max: max}
}

func (h *priceHeap) Len() int { return len(h.keys) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.keys[i] > h.keys[j]
	}
	return h.keys[i] < h.keys[j]
}

func (h *priceHeap) Swap(i, j int) { h.keys[i], h.keys[j] = h.keys[j], h.keys[i] }

func (h *priceHeap) Push(x any) { h.keys = append(h.keys, x.(Ticks)) }

func (h *priceHeap) Pop() any {
	old := h.keys
	n := len(old)
	k := old[n-1]
	h.keys = old[:n-1]
	return k
}

func (h *priceHeap) top() (Ticks, bool) {
	if len(h.keys) == 0 {
		return 0, false
	}
	return h.keys[0], true
}

func (h *priceHeap) pushPrice(p Ticks) { heap.Push(h, p) }
func (h *priceHeap) popTop()           { heap.Pop(h) }
