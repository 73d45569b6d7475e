package engine

import "skoll/internal/common"

// none marks an empty slot link.
const none = int32(-1)

// Handle addresses one resting order inside a PriceLevel without
// aliasing it. A handle stays valid until the order leaves the level;
// after that the slot's generation advances and the handle goes stale.
type Handle struct {
	slot int32
	gen  uint32
}

type levelSlot struct {
	order common.Order
	prev  int32
	next  int32
	gen   uint32
	live  bool
}

// PriceLevel holds the resting orders at a single price in strict
// arrival order. Orders live in a slot arena threaded as a doubly
// linked list by index, so detaching any order is O(1) given its
// handle and freed slots are recycled for later arrivals.
type PriceLevel struct {
	price float64
	slots []levelSlot
	free  []int32
	head  int32
	tail  int32
	count int
}

func NewPriceLevel(price float64) *PriceLevel {
	return &PriceLevel{
		price: price,
		head:  none,
		tail:  none,
	}
}

func (l *PriceLevel) Price() float64 { return l.price }

func (l *PriceLevel) Len() int { return l.count }

func (l *PriceLevel) Empty() bool { return l.count == 0 }

// Append adds an order at the tail, preserving time priority.
func (l *PriceLevel) Append(order common.Order) Handle {
	var idx int32
	if n := len(l.free); n > 0 {
		idx = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.slots = append(l.slots, levelSlot{})
		idx = int32(len(l.slots) - 1)
	}

	slot := &l.slots[idx]
	slot.order = order
	slot.prev = l.tail
	slot.next = none
	slot.live = true

	if l.tail == none {
		l.head = idx
	} else {
		l.slots[l.tail].next = idx
	}
	l.tail = idx
	l.count++

	return Handle{slot: idx, gen: slot.gen}
}

// Front returns the earliest resting order for in-place mutation by
// the matching loop, with its handle for later removal.
func (l *PriceLevel) Front() (*common.Order, Handle, bool) {
	if l.head == none {
		return nil, Handle{}, false
	}
	slot := &l.slots[l.head]
	return &slot.order, Handle{slot: l.head, gen: slot.gen}, true
}

// Order resolves a handle to its order for in-place mutation.
func (l *PriceLevel) Order(h Handle) (*common.Order, bool) {
	if !l.valid(h) {
		return nil, false
	}
	return &l.slots[h.slot].order, true
}

// Remove detaches the order addressed by h. It reports false if the
// handle is stale, which means the order already left the level.
func (l *PriceLevel) Remove(h Handle) (common.Order, bool) {
	if !l.valid(h) {
		return common.Order{}, false
	}

	slot := &l.slots[h.slot]
	if slot.prev != none {
		l.slots[slot.prev].next = slot.next
	} else {
		l.head = slot.next
	}
	if slot.next != none {
		l.slots[slot.next].prev = slot.prev
	} else {
		l.tail = slot.prev
	}

	order := slot.order
	slot.order = common.Order{}
	slot.live = false
	slot.gen++
	l.free = append(l.free, h.slot)
	l.count--

	return order, true
}

// TotalQuantity sums the remaining quantities at this level.
func (l *PriceLevel) TotalQuantity() uint64 {
	var total uint64
	for idx := l.head; idx != none; idx = l.slots[idx].next {
		total += l.slots[idx].order.Quantity
	}
	return total
}

// Orders snapshots the resting orders in arrival order.
func (l *PriceLevel) Orders() []common.Order {
	orders := make([]common.Order, 0, l.count)
	for idx := l.head; idx != none; idx = l.slots[idx].next {
		orders = append(orders, l.slots[idx].order)
	}
	return orders
}

func (l *PriceLevel) valid(h Handle) bool {
	if h.slot < 0 || int(h.slot) >= len(l.slots) {
		return false
	}
	slot := &l.slots[h.slot]
	return slot.live && slot.gen == h.gen
}
