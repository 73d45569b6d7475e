package engine

import (
	"github.com/rs/zerolog/log"

	"skoll/internal/common"
)

// Reporter receives an execution report for every fill the book
// produces. Reports are fired synchronously from the matching loop, so
// implementations must not call back into the book.
type Reporter interface {
	ReportTrade(trade common.Trade) error
}

// LogReporter writes execution reports to the structured log.
type LogReporter struct{}

func (LogReporter) ReportTrade(trade common.Trade) error {
	log.Info().
		Str("exec_id", trade.ExecID.String()).
		Uint64("buy_order_id", trade.BuyOrderID).
		Uint64("sell_order_id", trade.SellOrderID).
		Float64("price", trade.Price).
		Uint64("quantity", trade.Quantity).
		Msg("trade executed")
	return nil
}
