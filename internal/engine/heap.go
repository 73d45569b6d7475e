package engine

import "container/heap"

// priceHeap is the best-price index for one side: a binary heap of
// candidate prices, max-ordered for bids and min-ordered for asks.
// Entries are never removed when a level empties; they go stale and
// are skipped lazily by the book's peek/pop helpers. Arbitrary heap
// removal would be O(n), so staleness is the cheaper trade.
type priceHeap struct {
	prices []float64
	max    bool
}

func newPriceHeap(max bool) *priceHeap {
	return &priceHeap{max: max}
}

func (h *priceHeap) Len() int { return len(h.prices) }

func (h *priceHeap) Less(i, j int) bool {
	if h.max {
		return h.prices[i] > h.prices[j]
	}
	return h.prices[i] < h.prices[j]
}

func (h *priceHeap) Swap(i, j int) {
	h.prices[i], h.prices[j] = h.prices[j], h.prices[i]
}

func (h *priceHeap) Push(x any) {
	h.prices = append(h.prices, x.(float64))
}

func (h *priceHeap) Pop() any {
	old := h.prices
	n := len(old)
	price := old[n-1]
	h.prices = old[:n-1]
	return price
}

// push inserts a candidate price.
func (h *priceHeap) push(price float64) {
	heap.Push(h, price)
}

// pop removes and returns the best candidate price, stale or not.
func (h *priceHeap) pop() (float64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return heap.Pop(h).(float64), true
}

// peek returns the best candidate price without removing it.
func (h *priceHeap) peek() (float64, bool) {
	if len(h.prices) == 0 {
		return 0, false
	}
	return h.prices[0], true
}
