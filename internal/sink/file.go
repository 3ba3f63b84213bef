package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/pdesai/matchcore/internal/types"
)

// FileSink appends trades to a JSON-lines log file. Writes are synchronous
// under a mutex; the file is write-only (pair with MemorySink for reads).
type FileSink struct {
	file    *os.File
	encoder *json.Encoder
	mutex   sync.Mutex
}

// NewFileSink opens (or creates) the trade log at filePath
func NewFileSink(filePath string) (*FileSink, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open trade log: %w", err)
	}

	return &FileSink{
		file:    file,
		encoder: json.NewEncoder(file),
	}, nil
}

func (s *FileSink) Record(trade *types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.encoder.Encode(trade)
}

func (s *FileSink) RecordBatch(trades []*types.Trade) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, trade := range trades {
		if err := s.encoder.Encode(trade); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileSink) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
