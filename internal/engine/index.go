package engine

import "skoll/internal/common"

// location names where a resting order currently sits: its side, its
// price level, and the handle of its slot within that level. The index
// never holds a direct order reference.
type location struct {
	side   common.Side
	price  float64
	handle Handle
}

// orderIndex maps order ids to their location so cancellation finds a
// resting order in O(1) without scanning levels. Exactly one entry
// exists per currently resting order.
type orderIndex struct {
	byID map[uint64]location
}

func newOrderIndex() *orderIndex {
	return &orderIndex{byID: make(map[uint64]location)}
}

func (ix *orderIndex) get(id uint64) (location, bool) {
	loc, ok := ix.byID[id]
	return loc, ok
}

func (ix *orderIndex) contains(id uint64) bool {
	_, ok := ix.byID[id]
	return ok
}

// insert registers a resting order. Registering an id twice is a bug
// in the caller; submission rejects duplicate ids before matching.
func (ix *orderIndex) insert(id uint64, loc location) error {
	if _, ok := ix.byID[id]; ok {
		return ErrDuplicateOrderID
	}
	ix.byID[id] = loc
	return nil
}

func (ix *orderIndex) remove(id uint64) {
	delete(ix.byID, id)
}
