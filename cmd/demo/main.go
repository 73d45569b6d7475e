// Command demo walks an order book through a small scripted session
// and prints the book state after each step.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skoll/internal/common"
	"skoll/internal/engine"
)

func main() {
	var report bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Interactive walkthrough of the matching engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			runDemo(report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&report, "report", false, "log an execution report for every fill")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDemo(report bool) {
	book := engine.NewOrderBook()
	if report {
		book.SetReporter(engine.LogReporter{})
	}

	// Resting orders on both sides.
	mustSubmitLimit(book, common.Sell, 101.0, 100)
	mustSubmitLimit(book, common.Sell, 102.0, 200)
	mustSubmitLimit(book, common.Buy, 99.0, 150)
	mustSubmitLimit(book, common.Buy, 98.0, 250)

	fmt.Println("Best bid:", formatBest(book.BestBid()))
	fmt.Println("Best ask:", formatBest(book.BestAsk()))
	fmt.Println("Depth (bids):", book.Depth(common.Buy, 5))
	fmt.Println("Depth (asks):", book.Depth(common.Sell, 5))

	// Aggressive buy that crosses the best ask.
	mustSubmitLimit(book, common.Buy, 102.0, 180)

	fmt.Println("\nAfter aggressive buy:")
	fmt.Println("Best bid:", formatBest(book.BestBid()))
	fmt.Println("Best ask:", formatBest(book.BestAsk()))

	// A market sell sweeps the bid side, then a cancel pulls the
	// deepest bid.
	if _, err := book.AddMarketOrder(common.Sell, 100); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	deep := mustSubmitLimit(book, common.Buy, 97.0, 40)
	book.CancelOrder(deep)

	fmt.Println("\nAfter market sell and cancel:")
	fmt.Println("Best bid:", formatBest(book.BestBid()))
	fmt.Println("Depth (bids):", book.Depth(common.Buy, 5))

	fmt.Println("\nTrades:")
	for _, t := range book.Trades() {
		fmt.Println(t)
		fmt.Println()
	}
}

func mustSubmitLimit(book *engine.OrderBook, side common.Side, price float64, qty uint64) uint64 {
	id, err := book.AddLimitOrder(side, price, qty)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return id
}

func formatBest(q engine.Quote, ok bool) string {
	if !ok {
		return "none"
	}
	return fmt.Sprintf("(%g, %d)", q.Price, q.Quantity)
}
