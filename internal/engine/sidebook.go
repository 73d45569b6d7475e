package engine

import (
	"github.com/tidwall/btree"

	"skoll/internal/common"
)

// sideBook maps prices to their PriceLevel for one trading side. Only
// resting limit orders live here. Levels are kept sorted best-first
// (highest first for bids, lowest first for asks) so a depth scan
// walks nearest-to-best without sorting.
type sideBook struct {
	levels *btree.BTreeG[*PriceLevel]
}

func newSideBook(side common.Side) *sideBook {
	var less func(a, b *PriceLevel) bool
	if side == common.Buy {
		// Sorted greatest first.
		less = func(a, b *PriceLevel) bool { return a.price > b.price }
	} else {
		// Sorted least first.
		less = func(a, b *PriceLevel) bool { return a.price < b.price }
	}
	return &sideBook{levels: btree.NewBTreeG(less)}
}

// get returns the live level at price, if any. The comparator only
// looks at prices, so a probe level is enough for the lookup.
func (b *sideBook) get(price float64) (*PriceLevel, bool) {
	return b.levels.GetMut(&PriceLevel{price: price})
}

// getOrCreate returns the level at price, creating it when absent.
// The second return reports whether a new level was created.
func (b *sideBook) getOrCreate(price float64) (*PriceLevel, bool) {
	if level, ok := b.get(price); ok {
		return level, false
	}
	level := NewPriceLevel(price)
	b.levels.Set(level)
	return level, true
}

func (b *sideBook) delete(price float64) {
	b.levels.Delete(&PriceLevel{price: price})
}

// scan walks the levels best-first until iter returns false.
func (b *sideBook) scan(iter func(*PriceLevel) bool) {
	b.levels.Scan(iter)
}
