// Command bench feeds a synthetic random limit-order stream through a
// book runner and appends a throughput line to a results file.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"skoll/internal/common"
	"skoll/internal/engine"
	"skoll/internal/runner"
)

func main() {
	var (
		numOrders int
		outPath   string
		seed      int64
		basePrice float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Synthetic order-stream throughput benchmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(numOrders, outPath, seed, basePrice)
		},
	}
	cmd.Flags().IntVar(&numOrders, "orders", 100_000, "number of orders to submit")
	cmd.Flags().StringVar(&outPath, "out", "benchmark_results.txt", "results file to append to")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for reproducibility")
	cmd.Flags().Float64Var(&basePrice, "base-price", 100.0, "center of the random price range")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runBench submits numOrders random limit orders (side 50/50, price
// basePrice±0.5, quantity 1..100) and measures completed throughput.
func runBench(numOrders int, outPath string, seed int64, basePrice float64) error {
	run := runner.Start(engine.NewOrderBook())
	defer func() {
		if err := run.Stop(); err != nil {
			log.Error().Err(err).Msg("runner stop failed")
		}
	}()

	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	for i := 0; i < numOrders; i++ {
		side := common.Buy
		if rng.Float64() >= 0.5 {
			side = common.Sell
		}
		price := basePrice + rng.Float64() - 0.5
		qty := uint64(rng.Intn(100) + 1)

		err := run.Do(func(b *engine.OrderBook) {
			if _, err := b.AddLimitOrder(side, price, qty); err != nil {
				log.Error().Err(err).Msg("order rejected")
			}
		})
		if err != nil {
			return err
		}
	}
	// Wait for the book goroutine to drain the stream before stopping
	// the clock.
	if err := run.Sync(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	throughput := float64(numOrders) / elapsed.Seconds()
	fmt.Printf("Processed %d orders in %.4f seconds\n", numOrders, elapsed.Seconds())
	fmt.Printf("≈ %.0f orders/second\n", throughput)

	line := fmt.Sprintf("[%s] num_orders=%d, elapsed=%.4fs, throughput≈%.0f orders/s\n",
		time.Now().Format("2006-01-02T15:04:05"), numOrders, elapsed.Seconds(), throughput)

	f, err := os.OpenFile(outPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	return nil
}
