package sink

import (
	"sync"

	"github.com/pdesai/matchcore/internal/types"
)

// MemorySink keeps the N most recent trades in a bounded in-memory buffer.
// It is the only sink with a read path, used by the demo harness and tests.
type MemorySink struct {
	trades  []*types.Trade
	maxSize int
	mutex   sync.RWMutex
}

// NewMemorySink creates an in-memory sink with a size limit
func NewMemorySink(maxSize int) *MemorySink {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemorySink{
		trades:  make([]*types.Trade, 0, maxSize),
		maxSize: maxSize,
	}
}

func (s *MemorySink) Record(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trade)
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
	return nil
}

func (s *MemorySink) RecordBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.trades = append(s.trades, trades...)
	if len(s.trades) > s.maxSize {
		s.trades = s.trades[len(s.trades)-s.maxSize:]
	}
	return nil
}

// Recent returns the last 'limit' trades in chronological order
func (s *MemorySink) Recent(limit int) []*types.Trade {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit <= 0 || limit > len(s.trades) {
		limit = len(s.trades)
	}

	start := len(s.trades) - limit
	result := make([]*types.Trade, limit)
	copy(result, s.trades[start:])
	return result
}

func (s *MemorySink) Close() error {
	return nil
}
