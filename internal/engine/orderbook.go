package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"skoll/internal/common"
)

var (
	// ErrDuplicateOrderID rejects a submission whose caller-supplied id
	// is already resting in the book. Nothing is mutated on rejection.
	ErrDuplicateOrderID = errors.New("duplicate order id")
)

// Quote is one visible price point: a price and the aggregate resting
// quantity at that price.
type Quote struct {
	Price    float64
	Quantity uint64
}

// OrderBook is a single-instrument limit order book with price-time
// priority: best price first, FIFO within each price level.
//
// Prices and orders live in separate structures. Per-side btrees map a
// price to its FIFO level, per-side heaps index the best price, and an
// order index maps ids to level handles for O(1) cancellation. The
// heaps tolerate stale prices left behind by emptied levels; reads
// prune them lazily on encounter.
//
// The book is strictly single-threaded. Callers needing concurrent
// access must serialize into one instance externally, e.g. through a
// runner goroutine.
type OrderBook struct {
	bids *sideBook
	asks *sideBook

	bidPrices *priceHeap
	askPrices *priceHeap

	index  *orderIndex
	trades []common.Trade

	nextID   uint64
	reporter Reporter
}

// NewOrderBook creates a new empty order book. Identifier assignment
// starts at 1.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		bids:      newSideBook(common.Buy),
		asks:      newSideBook(common.Sell),
		bidPrices: newPriceHeap(true),
		askPrices: newPriceHeap(false),
		index:     newOrderIndex(),
		nextID:    1,
	}
}

// SetReporter installs an execution-report sink. A failing reporter is
// logged and never interrupts matching.
func (b *OrderBook) SetReporter(r Reporter) {
	b.reporter = r
}

// SubmitOption overrides submission defaults.
type SubmitOption func(*submitConfig)

type submitConfig struct {
	id        uint64
	hasID     bool
	timestamp time.Time
}

// WithOrderID submits under a caller-chosen identifier instead of an
// engine-assigned one.
func WithOrderID(id uint64) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.id = id
		cfg.hasID = true
	}
}

// WithTimestamp overrides the arrival timestamp, which defaults to the
// submission time.
func WithTimestamp(ts time.Time) SubmitOption {
	return func(cfg *submitConfig) {
		cfg.timestamp = ts
	}
}

// AddLimitOrder submits a limit order and immediately matches it
// against the opposite side. Any unfilled remainder rests in the book.
// Returns the order id, generated when not supplied.
func (b *OrderBook) AddLimitOrder(side common.Side, price float64, quantity uint64, opts ...SubmitOption) (uint64, error) {
	order, err := b.newOrder(side, common.LimitOrder, price, quantity, opts)
	if err != nil {
		return 0, err
	}

	b.match(&order)
	if order.Quantity > 0 {
		b.rest(order)
	}
	return order.ID, nil
}

// AddMarketOrder submits a market order, matching at the best
// available prices until filled or the opposite side is exhausted.
// Any remaining quantity is discarded; market orders never rest.
func (b *OrderBook) AddMarketOrder(side common.Side, quantity uint64, opts ...SubmitOption) (uint64, error) {
	order, err := b.newOrder(side, common.MarketOrder, 0, quantity, opts)
	if err != nil {
		return 0, err
	}

	b.match(&order)
	return order.ID, nil
}

// CancelOrder removes a resting order. It reports false when the id is
// unknown, which covers a cancel racing a fill and is not an error.
func (b *OrderBook) CancelOrder(id uint64) bool {
	loc, ok := b.index.get(id)
	if !ok {
		return false
	}

	book := b.sideOf(loc.side)
	level, ok := book.get(loc.price)
	if !ok {
		panic(fmt.Sprintf("order book corrupt: order %d indexed at %s %f but level is gone", id, loc.side, loc.price))
	}
	if _, ok := level.Remove(loc.handle); !ok {
		panic(fmt.Sprintf("order book corrupt: order %d indexed at %s %f with a stale handle", id, loc.side, loc.price))
	}

	// The emptied level is dropped here; its price stays in the heap as
	// a stale entry until a read prunes it.
	if level.Empty() {
		book.delete(loc.price)
	}
	b.index.remove(id)
	return true
}

// BestBid returns the highest resting buy price and its aggregate
// quantity, or false if no bids rest.
func (b *OrderBook) BestBid() (Quote, bool) {
	return b.best(common.Buy)
}

// BestAsk returns the lowest resting sell price and its aggregate
// quantity, or false if no asks rest.
func (b *OrderBook) BestAsk() (Quote, bool) {
	return b.best(common.Sell)
}

// Depth returns up to levels visible price points on side, ordered
// nearest-to-best first (descending prices for bids, ascending for
// asks).
func (b *OrderBook) Depth(side common.Side, levels int) []Quote {
	if levels <= 0 {
		return nil
	}
	var quotes []Quote
	b.sideOf(side).scan(func(level *PriceLevel) bool {
		quotes = append(quotes, Quote{Price: level.Price(), Quantity: level.TotalQuantity()})
		return len(quotes) < levels
	})
	return quotes
}

// Trades returns the executions recorded so far, oldest first.
func (b *OrderBook) Trades() []common.Trade {
	trades := make([]common.Trade, len(b.trades))
	copy(trades, b.trades)
	return trades
}

// Clear releases all resting orders and trade history and restarts
// identifier assignment from 1.
func (b *OrderBook) Clear() {
	b.bids = newSideBook(common.Buy)
	b.asks = newSideBook(common.Sell)
	b.bidPrices = newPriceHeap(true)
	b.askPrices = newPriceHeap(false)
	b.index = newOrderIndex()
	b.trades = nil
	b.nextID = 1
}

// --- internals ---------------------------------------------------------

func (b *OrderBook) newOrder(side common.Side, otype common.OrderType, price float64, quantity uint64, opts []SubmitOption) (common.Order, error) {
	var cfg submitConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var id uint64
	if cfg.hasID {
		if b.index.contains(cfg.id) {
			return common.Order{}, fmt.Errorf("order id %d: %w", cfg.id, ErrDuplicateOrderID)
		}
		id = cfg.id
	} else {
		id = b.nextFreeID()
	}

	ts := cfg.timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return common.Order{
		ID:            id,
		Side:          side,
		OrderType:     otype,
		LimitPrice:    price,
		Quantity:      quantity,
		TotalQuantity: quantity,
		Timestamp:     ts,
	}, nil
}

// nextFreeID advances the monotonic counter, probing past any ids a
// caller has already parked in the book.
func (b *OrderBook) nextFreeID() uint64 {
	for {
		id := b.nextID
		b.nextID++
		if !b.index.contains(id) {
			return id
		}
	}
}

func (b *OrderBook) sideOf(side common.Side) *sideBook {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

func (b *OrderBook) heapOf(side common.Side) *priceHeap {
	if side == common.Buy {
		return b.bidPrices
	}
	return b.askPrices
}

// accepts decides whether the incoming order may trade at price. A
// market order takes any price; a limit order must not violate its own
// limit.
func accepts(incoming *common.Order, price float64) bool {
	if incoming.OrderType == common.MarketOrder {
		return true
	}
	if incoming.Side == common.Buy {
		return price <= incoming.LimitPrice
	}
	return price >= incoming.LimitPrice
}

// match consumes crossing liquidity from the opposite side until the
// incoming order is exhausted, the book runs out, or the best price
// stops being acceptable.
func (b *OrderBook) match(incoming *common.Order) {
	opposite := incoming.Side.Opposite()
	book := b.sideOf(opposite)
	prices := b.heapOf(opposite)

	for incoming.Quantity > 0 {
		price, ok := b.popBest(opposite)
		if !ok {
			// No liquidity left.
			break
		}
		if !accepts(incoming, price) {
			// The price is still live, just out of reach for this
			// order. Push it back so later orders can find it.
			prices.push(price)
			break
		}

		level, ok := book.get(price)
		if !ok || level.Empty() {
			// popBest only returns live prices; a single-threaded run
			// cannot reach this.
			book.delete(price)
			continue
		}

		// Drain the level head-first (FIFO).
		for incoming.Quantity > 0 {
			resting, handle, ok := level.Front()
			if !ok {
				break
			}

			traded := min(incoming.Quantity, resting.Quantity)
			b.recordTrade(incoming, resting, price, traded)
			incoming.Quantity -= traded
			resting.Quantity -= traded

			if resting.Quantity == 0 {
				restingID := resting.ID
				level.Remove(handle)
				b.index.remove(restingID)
			}
		}

		if level.Empty() {
			// Fully consumed; the price is not re-pushed.
			book.delete(price)
		} else {
			// Liquidity remains, keep the price discoverable.
			prices.push(price)
		}
	}
}

// rest parks the unfilled remainder of a limit order in its side of
// the book.
func (b *OrderBook) rest(order common.Order) {
	if order.OrderType == common.MarketOrder {
		panic(fmt.Sprintf("order book corrupt: market order %d reached the resting path", order.ID))
	}

	book := b.sideOf(order.Side)
	level, created := book.getOrCreate(order.LimitPrice)
	if created {
		b.heapOf(order.Side).push(order.LimitPrice)
	}

	handle := level.Append(order)
	if err := b.index.insert(order.ID, location{side: order.Side, price: order.LimitPrice, handle: handle}); err != nil {
		panic(fmt.Sprintf("order book corrupt: resting order %d already indexed", order.ID))
	}
}

// popBest removes and returns the best live price on side, discarding
// stale heap entries on the way. Callers that keep the level alive
// must push the price back.
func (b *OrderBook) popBest(side common.Side) (float64, bool) {
	book := b.sideOf(side)
	prices := b.heapOf(side)
	for {
		price, ok := prices.pop()
		if !ok {
			return 0, false
		}
		if level, ok := book.get(price); ok && !level.Empty() {
			return price, true
		}
	}
}

// peekBest returns the best live price on side without consuming it,
// pruning stale heap entries as a side effect.
func (b *OrderBook) peekBest(side common.Side) (float64, bool) {
	book := b.sideOf(side)
	prices := b.heapOf(side)
	for {
		price, ok := prices.peek()
		if !ok {
			return 0, false
		}
		if level, ok := book.get(price); ok && !level.Empty() {
			return price, true
		}
		prices.pop()
	}
}

func (b *OrderBook) best(side common.Side) (Quote, bool) {
	price, ok := b.peekBest(side)
	if !ok {
		return Quote{}, false
	}
	level, ok := b.sideOf(side).get(price)
	if !ok {
		panic(fmt.Sprintf("order book corrupt: best %s price %f has no level", side, price))
	}
	return Quote{Price: price, Quantity: level.TotalQuantity()}, true
}

// recordTrade appends one execution, with buyer and seller assigned by
// each order's actual role, and fires the reporter if one is set.
func (b *OrderBook) recordTrade(incoming, resting *common.Order, price float64, quantity uint64) {
	trade := common.Trade{
		ExecID:    uuid.New(),
		Price:     price,
		Quantity:  quantity,
		Timestamp: time.Now(),
	}
	if incoming.Side == common.Buy {
		trade.BuyOrderID = incoming.ID
		trade.SellOrderID = resting.ID
	} else {
		trade.BuyOrderID = resting.ID
		trade.SellOrderID = incoming.ID
	}
	b.trades = append(b.trades, trade)

	if b.reporter != nil {
		if err := b.reporter.ReportTrade(trade); err != nil {
			log.Error().
				Err(err).
				Str("exec_id", trade.ExecID.String()).
				Msg("execution report failed")
		}
	}
}
