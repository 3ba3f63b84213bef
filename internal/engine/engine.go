package engine

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/pdesai/matchcore/internal/book"
	"github.com/pdesai/matchcore/internal/sink"
	"github.com/pdesai/matchcore/internal/types"
)

// Config holds matching engine configuration
type Config struct {
	// NumInstruments is the registry capacity (default 1024)
	NumInstruments int

	// SymbolPrefix is the canonical symbol prefix (default "TICKER")
	SymbolPrefix string

	// MatchInterval is the pause between full matching passes
	MatchInterval time.Duration
}

// Engine drives repeated matching passes across every instrument's book.
// Any number of producers may call Submit concurrently; exactly one
// goroutine is expected to drive Run.
type Engine struct {
	registry *book.Registry
	sink     sink.TradeSink
	log      *zap.Logger
	interval time.Duration
	nextID   atomic.Uint64
}

// New creates an engine that forwards executed trades to tradeSink
func New(cfg Config, tradeSink sink.TradeSink, log *zap.Logger) *Engine {
	if cfg.MatchInterval <= 0 {
		cfg.MatchInterval = 100 * time.Millisecond
	}
	if tradeSink == nil {
		tradeSink = sink.NewCompositeSink()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Engine{
		registry: book.NewRegistry(cfg.NumInstruments, cfg.SymbolPrefix),
		sink:     tradeSink,
		log:      log,
		interval: cfg.MatchInterval,
	}
}

// Submit validates an order, assigns it the next monotonic ID, and appends
// it to the side-appropriate sequence of its instrument's book. Returns
// types.ErrInvalidSide or types.ErrInvalidOrder on rejection; otherwise the
// call is fire-and-forget.
func (e *Engine) Submit(side types.SideType, symbol string, quantity int, price float64) error {
	order := types.NewOrder(e.nextID.Add(1), side, symbol, quantity, price)
	if err := order.Validate(); err != nil {
		return err
	}

	slot := e.registry.Resolve(symbol)
	e.registry.Book(slot).Append(order)
	return nil
}

// MatchAll runs one matching pass over every book in slot order, forwards
// emitted trades to the sink, and returns the trades executed this pass.
func (e *Engine) MatchAll() []*types.Trade {
	var all []*types.Trade
	for slot := 0; slot < e.registry.Size(); slot++ {
		all = append(all, e.matchBook(slot)...)
	}
	return all
}

// matchBook matches a single instrument. A panic or sink failure here is
// contained to this book's pass so the matching loop keeps running.
func (e *Engine) matchBook(slot int) (trades []*types.Trade) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("matching pass panicked",
				zap.Int("slot", slot),
				zap.Any("panic", r),
			)
			trades = nil
		}
	}()

	trades = e.registry.Book(slot).MatchOnce()
	if len(trades) == 0 {
		return nil
	}

	if err := e.sink.RecordBatch(trades); err != nil {
		e.log.Warn("trade sink rejected batch",
			zap.Int("slot", slot),
			zap.Int("trades", len(trades)),
			zap.Error(err),
		)
	}
	return trades
}

// Run executes matching passes until ctx is cancelled, pausing for the
// configured interval between passes. Returns ctx.Err() on cancellation.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	e.log.Info("matching loop started",
		zap.Int("instruments", e.registry.Size()),
		zap.Duration("interval", e.interval),
	)

	for {
		select {
		case <-ctx.Done():
			e.log.Info("matching loop stopped")
			return ctx.Err()
		case <-ticker.C:
			e.MatchAll()
		}
	}
}

// NumInstruments returns the registry capacity
func (e *Engine) NumInstruments() int {
	return e.registry.Size()
}

// BookDepth reports the resting order counts for a symbol's book
func (e *Engine) BookDepth(symbol string) (buys, sells int) {
	return e.registry.Book(e.registry.Resolve(symbol)).Depth()
}

// BookQuantity reports the total resting quantity per side for a symbol's book
func (e *Engine) BookQuantity(symbol string) (buyQty, sellQty int) {
	return e.registry.Book(e.registry.Resolve(symbol)).RestingQuantity()
}
