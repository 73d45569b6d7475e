package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Trade records one execution between a buy order and a sell order.
// Trades are immutable once recorded.
type Trade struct {
	ExecID      uuid.UUID // Execution identifier, minted per fill
	BuyOrderID  uint64    // Order on the buy side of the match
	SellOrderID uint64    // Order on the sell side of the match
	Price       float64   // Execution price (the resting order's price)
	Quantity    uint64    // Amount traded
	Timestamp   time.Time // Time of execution
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`ExecID:      %s
BuyOrderID:  %d
SellOrderID: %d
Price:       %f
Quantity:    %d
Timestamp:   %v`,
		t.ExecID,
		t.BuyOrderID,
		t.SellOrderID,
		t.Price,
		t.Quantity,
		t.Timestamp.Format(time.RFC3339Nano),
	)
}
