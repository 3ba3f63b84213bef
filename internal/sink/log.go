package sink

import (
	"go.uber.org/zap"

	"github.com/pdesai/matchcore/internal/types"
)

// LogSink writes each execution to the process log
type LogSink struct {
	log *zap.Logger
}

// NewLogSink creates a sink that logs every trade
func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Record(trade *types.Trade) error {
	s.log.Info("trade executed",
		zap.String("symbol", trade.Symbol),
		zap.Int("quantity", trade.Quantity),
		zap.Float64("price", trade.Price),
		zap.Uint64("buy_order_id", trade.BuyOrderID),
		zap.Uint64("sell_order_id", trade.SellOrderID),
	)
	return nil
}

func (s *LogSink) RecordBatch(trades []*types.Trade) error {
	for _, trade := range trades {
		_ = s.Record(trade)
	}
	return nil
}

func (s *LogSink) Close() error {
	return nil
}
