package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pdesai/matchcore/internal/types"
)

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

const createTradesTable = `
	CREATE TABLE IF NOT EXISTS trades (
		trade_id      BIGSERIAL PRIMARY KEY,
		symbol        TEXT NOT NULL,
		buy_order_id  BIGINT NOT NULL,
		sell_order_id BIGINT NOT NULL,
		price         DOUBLE PRECISION NOT NULL,
		quantity      INTEGER NOT NULL,
		executed_at   TIMESTAMPTZ NOT NULL
	)
`

// PostgresSink appends trades to a PostgreSQL table
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to PostgreSQL, bootstraps the trades table if
// needed, and returns a trade sink backed by it.
func NewPostgresSink(cfg PostgresConfig) (*PostgresSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	connString := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode, cfg.MaxConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, createTradesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to bootstrap trades table: %w", err)
	}

	return &PostgresSink{pool: pool}, nil
}

const insertTrade = `
	INSERT INTO trades (symbol, buy_order_id, sell_order_id, price, quantity, executed_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

func (s *PostgresSink) Record(trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTrade,
		trade.Symbol, trade.BuyOrderID, trade.SellOrderID,
		trade.Price, trade.Quantity, trade.Timestamp,
	)
	return err
}

func (s *PostgresSink) RecordBatch(trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use pgx batch for efficient batch inserts
	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTrade,
			trade.Symbol, trade.BuyOrderID, trade.SellOrderID,
			trade.Price, trade.Quantity, trade.Timestamp,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(trades); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at index %d: %w", i, err)
		}
	}
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
