package source

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdesai/matchcore/internal/engine"
	"github.com/pdesai/matchcore/internal/types"
)

// Config controls the random order stream
type Config struct {
	Producers    int           // Number of concurrent order generators
	Instruments  int           // Symbols are drawn from [0, Instruments)
	SymbolPrefix string        // Symbol prefix, e.g. "TICKER"
	MinQuantity  int           // Inclusive quantity range
	MaxQuantity  int
	MinPrice     float64       // Inclusive price range, rounded to cents
	MaxPrice     float64
	MinDelay     time.Duration // Inter-order delay range per producer
	MaxDelay     time.Duration
}

// DefaultConfig mirrors the classic demo load: 5 producers spraying
// quantities of 1..100 at prices between 10 and 1000 across 1024 tickers.
func DefaultConfig() Config {
	return Config{
		Producers:    5,
		Instruments:  1024,
		SymbolPrefix: "TICKER",
		MinQuantity:  1,
		MaxQuantity:  100,
		MinPrice:     10,
		MaxPrice:     1000,
		MinDelay:     10 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
	}
}

// Simulator feeds randomly generated orders into the matching engine to
// exercise it. It is a demo Order Source; any component that calls
// Engine.Submit can replace it.
type Simulator struct {
	engine    *engine.Engine
	cfg       Config
	log       *zap.Logger
	submitted atomic.Uint64
}

// New creates a simulator targeting the given engine
func New(eng *engine.Engine, cfg Config, log *zap.Logger) *Simulator {
	if cfg.Producers <= 0 {
		cfg.Producers = 5
	}
	if cfg.Instruments <= 0 {
		cfg.Instruments = eng.NumInstruments()
	}
	if cfg.SymbolPrefix == "" {
		cfg.SymbolPrefix = "TICKER"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{engine: eng, cfg: cfg, log: log}
}

// Run starts cfg.Producers generator goroutines and blocks until ctx is
// cancelled.
func (s *Simulator) Run(ctx context.Context) error {
	s.log.Info("order simulator started",
		zap.Int("producers", s.cfg.Producers),
		zap.Int("instruments", s.cfg.Instruments),
	)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.cfg.Producers; i++ {
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			return s.produce(ctx, rand.New(rand.NewSource(seed)))
		})
	}
	return g.Wait()
}

func (s *Simulator) produce(ctx context.Context, rng *rand.Rand) error {
	for {
		side := types.Buy
		if rng.Intn(2) == 1 {
			side = types.Sell
		}
		symbol := fmt.Sprintf("%s%d", s.cfg.SymbolPrefix, rng.Intn(s.cfg.Instruments))
		quantity := s.cfg.MinQuantity + rng.Intn(s.cfg.MaxQuantity-s.cfg.MinQuantity+1)
		price := s.cfg.MinPrice + rng.Float64()*(s.cfg.MaxPrice-s.cfg.MinPrice)
		price = math.Round(price*100) / 100

		if err := s.engine.Submit(side, symbol, quantity, price); err != nil {
			s.log.Warn("order rejected", zap.Error(err))
		} else {
			s.submitted.Add(1)
		}

		delay := s.cfg.MinDelay
		if s.cfg.MaxDelay > s.cfg.MinDelay {
			delay += time.Duration(rng.Int63n(int64(s.cfg.MaxDelay - s.cfg.MinDelay)))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Submitted returns the number of orders accepted so far
func (s *Simulator) Submitted() uint64 {
	return s.submitted.Load()
}
