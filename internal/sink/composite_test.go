package sink

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdesai/matchcore/internal/types"
)

type brokenSink struct {
	closed bool
}

func (b *brokenSink) Record(*types.Trade) error        { return errors.New("broken") }
func (b *brokenSink) RecordBatch([]*types.Trade) error { return errors.New("broken") }
func (b *brokenSink) Close() error                     { b.closed = true; return nil }

func TestCompositeSinkFansOut(t *testing.T) {
	a := NewMemorySink(10)
	b := NewMemorySink(10)
	c := NewCompositeSink(a, b)

	require.NoError(t, c.Record(trade("TICKER0", 5, 50)))
	require.NoError(t, c.RecordBatch([]*types.Trade{trade("TICKER0", 6, 60)}))

	assert.Len(t, a.Recent(10), 2)
	assert.Len(t, b.Recent(10), 2)
}

func TestCompositeSinkKeepsWritingPastFailures(t *testing.T) {
	mem := NewMemorySink(10)
	c := NewCompositeSink(&brokenSink{}, mem)

	err := c.Record(trade("TICKER0", 5, 50))
	assert.Error(t, err, "failure surfaces to the caller")
	assert.Len(t, mem.Recent(10), 1, "healthy sinks still receive the trade")
}

func TestCompositeSinkClosesAll(t *testing.T) {
	b1 := &brokenSink{}
	b2 := &brokenSink{}
	c := NewCompositeSink(b1, b2)

	require.NoError(t, c.Close())
	assert.True(t, b1.closed)
	assert.True(t, b2.closed)
}

func TestEmptyCompositeSinkIsNoOp(t *testing.T) {
	c := NewCompositeSink()

	require.NoError(t, c.Record(trade("TICKER0", 1, 10)))
	require.NoError(t, c.RecordBatch(nil))
	require.NoError(t, c.Close())
}
