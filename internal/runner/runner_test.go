package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skoll/internal/common"
	"skoll/internal/engine"
	"skoll/internal/runner"
)

func TestRunnerAppliesCommandsInOrder(t *testing.T) {
	run := runner.Start(engine.NewOrderBook())
	defer run.Stop()

	require.NoError(t, run.Do(func(b *engine.OrderBook) {
		_, err := b.AddLimitOrder(common.Sell, 101.0, 100)
		assert.NoError(t, err)
	}))
	require.NoError(t, run.Do(func(b *engine.OrderBook) {
		_, err := b.AddLimitOrder(common.Buy, 101.0, 40)
		assert.NoError(t, err)
	}))

	var ask engine.Quote
	var ok bool
	require.NoError(t, run.Do(func(b *engine.OrderBook) {
		ask, ok = b.BestAsk()
	}))
	require.NoError(t, run.Sync())

	require.True(t, ok)
	assert.Equal(t, engine.Quote{Price: 101.0, Quantity: 60}, ask)
}

func TestRunnerStopRejectsFurtherCommands(t *testing.T) {
	run := runner.Start(engine.NewOrderBook())
	require.NoError(t, run.Sync())
	require.NoError(t, run.Stop())

	err := run.Do(func(*engine.OrderBook) {})
	assert.ErrorIs(t, err, runner.ErrStopped)
	assert.ErrorIs(t, run.Sync(), runner.ErrStopped)
}

func TestRunnerSerializesConcurrentProducers(t *testing.T) {
	run := runner.Start(engine.NewOrderBook())
	defer run.Stop()

	const perSide = 200
	done := make(chan error, 2)
	submit := func(side common.Side) {
		for i := 0; i < perSide; i++ {
			err := run.Do(func(b *engine.OrderBook) {
				_, err := b.AddLimitOrder(side, 100.0, 1)
				assert.NoError(t, err)
			})
			if err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}
	go submit(common.Buy)
	go submit(common.Sell)
	require.NoError(t, <-done)
	require.NoError(t, <-done)
	require.NoError(t, run.Sync())

	var traded uint64
	var resting uint64
	require.NoError(t, run.Do(func(b *engine.OrderBook) {
		for _, trade := range b.Trades() {
			traded += trade.Quantity
		}
		for _, side := range []common.Side{common.Buy, common.Sell} {
			for _, q := range b.Depth(side, 10) {
				resting += q.Quantity
			}
		}
	}))
	require.NoError(t, run.Sync())

	// Everything crosses at one price: quantity in equals quantity
	// matched twice over plus whatever is left resting.
	assert.Equal(t, uint64(2*perSide), 2*traded+resting)
}
