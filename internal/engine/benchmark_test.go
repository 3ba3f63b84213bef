package engine

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/pdesai/matchcore/internal/sink"
	"github.com/pdesai/matchcore/internal/types"
)

// Benchmark KPIs:
// - Orders/second submission throughput
// - Matching pass latency with populated books

// BenchmarkSubmit benchmarks order submission across instruments
func BenchmarkSubmit(b *testing.B) {
	eng := New(Config{NumInstruments: 1024, MatchInterval: time.Millisecond}, sink.NewCompositeSink(), nil)
	rng := rand.New(rand.NewSource(1))

	symbols := make([]string, 1024)
	for i := range symbols {
		symbols[i] = fmt.Sprintf("TICKER%d", i)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		side := types.Buy
		if i%2 == 1 {
			side = types.Sell
		}
		_ = eng.Submit(side, symbols[rng.Intn(len(symbols))], 1+rng.Intn(100), 10+rng.Float64()*990)
	}

	ordersPerSec := float64(b.N) / b.Elapsed().Seconds()
	b.ReportMetric(ordersPerSec, "orders/sec")
}

// BenchmarkMatchAll benchmarks one full matching pass over populated books
func BenchmarkMatchAll(b *testing.B) {
	rng := rand.New(rand.NewSource(1))

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		eng := New(Config{NumInstruments: 64, MatchInterval: time.Millisecond}, sink.NewCompositeSink(), nil)
		for j := 0; j < 5000; j++ {
			side := types.Buy
			if rng.Intn(2) == 1 {
				side = types.Sell
			}
			symbol := fmt.Sprintf("TICKER%d", rng.Intn(64))
			_ = eng.Submit(side, symbol, 1+rng.Intn(100), 10+rng.Float64()*990)
		}
		b.StartTimer()

		eng.MatchAll()
	}
}
