package sink

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdesai/matchcore/internal/types"
)

func TestFileSinkAppendsJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.log")

	s, err := NewFileSink(path)
	require.NoError(t, err)

	require.NoError(t, s.Record(trade("TICKER0", 10, 100)))
	require.NoError(t, s.RecordBatch([]*types.Trade{
		trade("TICKER1", 20, 200),
		trade("TICKER2", 30, 300),
	}))
	require.NoError(t, s.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var lines []*types.Trade
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var tr types.Trade
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &tr))
		lines = append(lines, &tr)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 3)
	assert.Equal(t, "TICKER0", lines[0].Symbol)
	assert.Equal(t, 20, lines[1].Quantity)
	assert.Equal(t, 300.0, lines[2].Price)
}

func TestFileSinkReopensExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.log")

	s, err := NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(trade("TICKER0", 1, 10)))
	require.NoError(t, s.Close())

	// Appending after reopen must not truncate earlier trades.
	s, err = NewFileSink(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(trade("TICKER0", 2, 20)))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, countLines(data))
}

func countLines(data []byte) int {
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}
