package sink

import "github.com/pdesai/matchcore/internal/types"

// TradeSink consumes trade execution events emitted by the matching engine.
// Implementations can print, publish, or persist them; the engine only
// requires that Record/RecordBatch exist and never blocks on their outcome.
type TradeSink interface {
	// Record consumes a single trade
	Record(trade *types.Trade) error

	// RecordBatch consumes multiple trades (useful for batch publishing)
	RecordBatch(trades []*types.Trade) error

	// Close releases any resources held by the sink
	Close() error
}

// CompositeSink fans every trade out to all configured sinks.
// Example: CompositeSink(memorySink, fileSink) keeps recent trades
// queryable in memory while appending them to the trade log.
type CompositeSink struct {
	sinks []TradeSink
}

// NewCompositeSink creates a composite sink from multiple sinks
func NewCompositeSink(sinks ...TradeSink) *CompositeSink {
	return &CompositeSink{sinks: sinks}
}

func (c *CompositeSink) Record(trade *types.Trade) error {
	var lastErr error
	for _, s := range c.sinks {
		if err := s.Record(trade); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeSink) RecordBatch(trades []*types.Trade) error {
	var lastErr error
	for _, s := range c.sinks {
		if err := s.RecordBatch(trades); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *CompositeSink) Close() error {
	var lastErr error
	for _, s := range c.sinks {
		if err := s.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
