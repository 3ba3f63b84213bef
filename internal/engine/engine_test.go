package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdesai/matchcore/internal/sink"
	"github.com/pdesai/matchcore/internal/types"
)

func newTestEngine(t *testing.T) (*Engine, *sink.MemorySink) {
	t.Helper()
	mem := sink.NewMemorySink(100)
	eng := New(Config{
		NumInstruments: 16,
		SymbolPrefix:   "TICKER",
		MatchInterval:  time.Millisecond,
	}, mem, nil)
	return eng, mem
}

func TestSubmitRejectsInvalidSide(t *testing.T) {
	eng, _ := newTestEngine(t)

	err := eng.Submit(types.NoSide, "TICKER0", 10, 100)
	require.ErrorIs(t, err, types.ErrInvalidSide)

	buys, sells := eng.BookDepth("TICKER0")
	assert.Zero(t, buys)
	assert.Zero(t, sells)
}

func TestSubmitRejectsInvalidOrder(t *testing.T) {
	eng, _ := newTestEngine(t)

	require.ErrorIs(t, eng.Submit(types.Buy, "TICKER0", 0, 100), types.ErrInvalidOrder)
	require.ErrorIs(t, eng.Submit(types.Buy, "TICKER0", -5, 100), types.ErrInvalidOrder)
	require.ErrorIs(t, eng.Submit(types.Sell, "TICKER0", 10, 0), types.ErrInvalidOrder)
	require.ErrorIs(t, eng.Submit(types.Sell, "TICKER0", 10, -1), types.ErrInvalidOrder)

	buys, sells := eng.BookDepth("TICKER0")
	assert.Zero(t, buys)
	assert.Zero(t, sells)
}

func TestSubmitAndMatchScenario(t *testing.T) {
	eng, mem := newTestEngine(t)

	require.NoError(t, eng.Submit(types.Sell, "TICKER0", 50, 100))
	require.NoError(t, eng.Submit(types.Buy, "TICKER0", 30, 120))

	trades := eng.MatchAll()
	require.Len(t, trades, 1)
	assert.Equal(t, "TICKER0", trades[0].Symbol)
	assert.Equal(t, 30, trades[0].Quantity)
	assert.Equal(t, 100.0, trades[0].Price)

	// The trade was forwarded to the sink.
	recent := mem.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, trades[0], recent[0])

	// Sell rests with the remainder, buy is gone.
	buys, sells := eng.BookDepth("TICKER0")
	assert.Zero(t, buys)
	assert.Equal(t, 1, sells)
	_, sellQty := eng.BookQuantity("TICKER0")
	assert.Equal(t, 20, sellQty)
}

func TestMatchAllVisitsEveryInstrument(t *testing.T) {
	eng, mem := newTestEngine(t)

	require.NoError(t, eng.Submit(types.Sell, "TICKER1", 10, 50))
	require.NoError(t, eng.Submit(types.Buy, "TICKER1", 10, 50))
	require.NoError(t, eng.Submit(types.Sell, "TICKER5", 5, 70))
	require.NoError(t, eng.Submit(types.Buy, "TICKER5", 5, 80))

	trades := eng.MatchAll()
	require.Len(t, trades, 2)

	// Books are visited in slot order within one pass.
	assert.Equal(t, "TICKER1", trades[0].Symbol)
	assert.Equal(t, "TICKER5", trades[1].Symbol)
	assert.Len(t, mem.Recent(10), 2)
}

func TestInstrumentsAreIndependent(t *testing.T) {
	eng, _ := newTestEngine(t)

	// Crossing prices on different instruments never match each other.
	require.NoError(t, eng.Submit(types.Sell, "TICKER2", 10, 100))
	require.NoError(t, eng.Submit(types.Buy, "TICKER3", 10, 200))

	trades := eng.MatchAll()
	assert.Empty(t, trades)
}

func TestOrderIDsAreMonotonic(t *testing.T) {
	eng, _ := newTestEngine(t)

	require.NoError(t, eng.Submit(types.Sell, "TICKER0", 10, 100))
	require.NoError(t, eng.Submit(types.Sell, "TICKER0", 10, 100))
	require.NoError(t, eng.Submit(types.Buy, "TICKER0", 20, 100))

	trades := eng.MatchAll()
	require.Len(t, trades, 2)

	// The first inserted sell carries the lower ID and trades first.
	assert.Less(t, trades[0].SellOrderID, trades[1].SellOrderID)
	assert.Equal(t, trades[0].BuyOrderID, trades[1].BuyOrderID)
}

type failingSink struct{}

func (failingSink) Record(*types.Trade) error        { return errors.New("sink down") }
func (failingSink) RecordBatch([]*types.Trade) error { return errors.New("sink down") }
func (failingSink) Close() error                     { return nil }

func TestSinkFailureDoesNotStopMatching(t *testing.T) {
	eng := New(Config{NumInstruments: 4, MatchInterval: time.Millisecond}, failingSink{}, nil)

	require.NoError(t, eng.Submit(types.Sell, "TICKER0", 10, 50))
	require.NoError(t, eng.Submit(types.Buy, "TICKER0", 10, 50))

	trades := eng.MatchAll()
	require.Len(t, trades, 1, "trades still execute when the sink rejects them")

	// The engine keeps accepting and matching afterwards.
	require.NoError(t, eng.Submit(types.Sell, "TICKER1", 5, 50))
	require.NoError(t, eng.Submit(types.Buy, "TICKER1", 5, 50))
	require.Len(t, eng.MatchAll(), 1)
}

func TestRunStopsOnCancellation(t *testing.T) {
	eng, mem := newTestEngine(t)

	require.NoError(t, eng.Submit(types.Sell, "TICKER0", 10, 50))
	require.NoError(t, eng.Submit(types.Buy, "TICKER0", 10, 50))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- eng.Run(ctx)
	}()

	// Give the loop a few intervals to pick up the crossing pair.
	require.Eventually(t, func() bool {
		return len(mem.Recent(1)) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("matching loop did not stop on cancellation")
	}
}
