package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/pdesai/matchcore/config"
	"github.com/pdesai/matchcore/internal/engine"
	"github.com/pdesai/matchcore/internal/logger"
	"github.com/pdesai/matchcore/internal/sink"
	"github.com/pdesai/matchcore/internal/source"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger with config
	log, err := logger.New(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting matching engine simulator",
		zap.Int("instruments", cfg.Engine.NumInstruments),
		zap.Duration("match_interval", cfg.Engine.MatchInterval),
		zap.Int("producers", cfg.Simulator.Producers),
	)

	// Build trade sink layers based on configuration
	tradeSink := buildTradeSinks(cfg, log)
	defer func() {
		if err := tradeSink.Close(); err != nil {
			log.Error("failed to close trade sink", zap.Error(err))
		}
	}()

	// Create the matching engine
	eng := engine.New(engine.Config{
		NumInstruments: cfg.Engine.NumInstruments,
		SymbolPrefix:   cfg.Engine.SymbolPrefix,
		MatchInterval:  cfg.Engine.MatchInterval,
	}, tradeSink, log)

	// Create the demo order source
	sim := source.New(eng, source.Config{
		Producers:    cfg.Simulator.Producers,
		Instruments:  cfg.Engine.NumInstruments,
		SymbolPrefix: cfg.Engine.SymbolPrefix,
		MinQuantity:  cfg.Simulator.MinQuantity,
		MaxQuantity:  cfg.Simulator.MaxQuantity,
		MinPrice:     cfg.Simulator.MinPrice,
		MaxPrice:     cfg.Simulator.MaxPrice,
		MinDelay:     cfg.Simulator.MinDelay,
		MaxDelay:     cfg.Simulator.MaxDelay,
	}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup

	// Matching loop
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("matching loop failed", zap.Error(err))
		}
	}()

	// Order producers
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("order simulator failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to shut down cleanly
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	cancel()
	wg.Wait()

	log.Info("simulation stopped", zap.Uint64("orders_submitted", sim.Submitted()))
}

// buildTradeSinks constructs the trade sink layers based on configuration.
// The console log sink is always on; memory, file, Redis, PostgreSQL, and
// Kafka layers are added when enabled. A backend that fails to connect is
// skipped with a warning rather than aborting startup.
func buildTradeSinks(cfg *config.Config, log *zap.Logger) sink.TradeSink {
	sinks := []sink.TradeSink{sink.NewLogSink(log)}

	// L1: In-memory recent-trades buffer
	if cfg.Memory.Enabled {
		sinks = append(sinks, sink.NewMemorySink(cfg.Memory.MaxTrades))
		log.Info("in-memory trade buffer enabled", zap.Int("max_trades", cfg.Memory.MaxTrades))
	}

	// L2: Redis (distributed cache)
	if cfg.Redis.Enabled {
		redisSink, err := sink.NewRedisSink(sink.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxTrades:    cfg.Redis.MaxTrades,
		})
		if err != nil {
			log.Warn("failed to connect to Redis, continuing without it", zap.Error(err))
		} else {
			sinks = append(sinks, redisSink)
			log.Info("Redis trade sink connected",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		}
	}

	// L3: PostgreSQL (durable record)
	if cfg.Database.Enabled {
		pgSink, err := sink.NewPostgresSink(sink.PostgresConfig{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Name,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			SSLMode:         cfg.Database.SSLMode,
		})
		if err != nil {
			log.Warn("failed to connect to PostgreSQL, continuing without it", zap.Error(err))
		} else {
			sinks = append(sinks, pgSink)
			log.Info("PostgreSQL trade sink connected",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.Name),
			)
		}
	}

	// L4: Kafka (event stream)
	if cfg.Kafka.Enabled {
		kafkaSink, err := sink.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Warn("failed to connect to Kafka, continuing without it", zap.Error(err))
		} else {
			sinks = append(sinks, kafkaSink)
			log.Info("Kafka trade sink connected",
				zap.Strings("brokers", cfg.Kafka.Brokers),
				zap.String("topic", cfg.Kafka.Topic),
			)
		}
	}

	// L5: File log (append-only JSON lines)
	if fileSink, err := sink.NewFileSink(cfg.Engine.TradeLogPath); err != nil {
		log.Warn("failed to open trade log file", zap.Error(err))
	} else {
		sinks = append(sinks, fileSink)
		log.Info("trade file log enabled", zap.String("path", cfg.Engine.TradeLogPath))
	}

	if len(sinks) == 1 {
		return sinks[0]
	}

	log.Info("trade sink layers initialized", zap.Int("layers", len(sinks)))
	return sink.NewCompositeSink(sinks...)
}
