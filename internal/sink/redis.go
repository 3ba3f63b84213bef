package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdesai/matchcore/internal/types"
)

const tradesKey = "trades:recent"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	MaxTrades    int
}

// RedisSink publishes trades into a Redis sorted set with FIFO eviction,
// scored by execution timestamp.
type RedisSink struct {
	client    *redis.Client
	maxTrades int
}

// NewRedisSink connects to Redis and returns a trade sink backed by it
func NewRedisSink(cfg RedisConfig) (*RedisSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	maxTrades := cfg.MaxTrades
	if maxTrades <= 0 {
		maxTrades = 10000
	}

	return &RedisSink{client: client, maxTrades: maxTrades}, nil
}

func (s *RedisSink) Record(trade *types.Trade) error {
	return s.RecordBatch([]*types.Trade{trade})
}

func (s *RedisSink) RecordBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()

	for _, trade := range trades {
		data, err := json.Marshal(trade)
		if err != nil {
			continue
		}
		pipe.ZAdd(ctx, tradesKey, redis.Z{
			Score:  float64(trade.Timestamp.UnixNano()),
			Member: data,
		})
	}

	// Trim to keep only the last N trades
	pipe.ZRemRangeByRank(ctx, tradesKey, 0, int64(-s.maxTrades-1))

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
