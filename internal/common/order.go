package common

import (
	"fmt"
	"time"
)

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

type OrderType int

const (
	// Limit orders are an order to buy or sell at a specified price or
	// better. Limit orders may rest on the order book until filled.
	LimitOrder OrderType = iota
	// Market orders are instructions to buy or sell immediately at
	// whatever price is available. They never rest; any quantity left
	// unfilled once the book is exhausted is discarded.
	MarketOrder
)

func (t OrderType) String() string {
	switch t {
	case LimitOrder:
		return "limit"
	case MarketOrder:
		return "market"
	}
	return fmt.Sprintf("OrderType(%d)", int(t))
}

type Order struct {
	ID            uint64    // Book-unique order identifier
	Side          Side      // Order side
	OrderType     OrderType // Limit or market
	LimitPrice    float64   // Limiting price; ignored for market orders
	Quantity      uint64    // Remaining quantity
	TotalQuantity uint64    // Total volume requested
	Timestamp     time.Time // Time of arrival of order into the book
}

func (order Order) String() string {
	return fmt.Sprintf(
		`ID:         %d
Side:       %v
OrderType:  %v
LimitPrice: %f
Quantity:   %d (Total: %d)
Timestamp:  %v`,
		order.ID,
		order.Side,
		order.OrderType,
		order.LimitPrice,
		order.Quantity,
		order.TotalQuantity,
		order.Timestamp.Format(time.RFC3339Nano),
	)
}
