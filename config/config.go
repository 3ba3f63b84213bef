package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Engine    EngineConfig
	Simulator SimulatorConfig
	Logger    LoggerConfig
	Memory    MemoryConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
}

// EngineConfig holds matching engine configuration
type EngineConfig struct {
	NumInstruments int
	SymbolPrefix   string
	MatchInterval  time.Duration
	TradeLogPath   string
}

// SimulatorConfig holds demo order generator configuration
type SimulatorConfig struct {
	Producers   int
	MinQuantity int
	MaxQuantity int
	MinPrice    float64
	MaxPrice    float64
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level string // DEBUG, INFO, WARN, ERROR
}

// MemoryConfig holds the in-memory recent-trades buffer configuration
type MemoryConfig struct {
	Enabled   bool
	MaxTrades int
}

// DatabaseConfig holds the PostgreSQL trade sink configuration
type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	SSLMode         string
}

// RedisConfig holds the Redis trade sink configuration
type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
	MaxTrades    int
}

// KafkaConfig holds the Kafka trade sink configuration
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

// Load loads configuration from .env file (if exists) and environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		Engine: EngineConfig{
			NumInstruments: getEnvInt("NUM_INSTRUMENTS", 1024),
			SymbolPrefix:   getEnv("SYMBOL_PREFIX", "TICKER"),
			MatchInterval:  getEnvDuration("MATCH_INTERVAL", 100*time.Millisecond),
			TradeLogPath:   getEnv("TRADE_LOG_PATH", "trades.log"),
		},
		Simulator: SimulatorConfig{
			Producers:   getEnvInt("SIM_PRODUCERS", 5),
			MinQuantity: getEnvInt("SIM_MIN_QUANTITY", 1),
			MaxQuantity: getEnvInt("SIM_MAX_QUANTITY", 100),
			MinPrice:    getEnvFloat("SIM_MIN_PRICE", 10),
			MaxPrice:    getEnvFloat("SIM_MAX_PRICE", 1000),
			MinDelay:    getEnvDuration("SIM_MIN_DELAY", 10*time.Millisecond),
			MaxDelay:    getEnvDuration("SIM_MAX_DELAY", 50*time.Millisecond),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
		Memory: MemoryConfig{
			Enabled:   getEnvBool("MEMORY_ENABLED", true),
			MaxTrades: getEnvInt("MEMORY_MAX_TRADES", 1000),
		},
		Database: DatabaseConfig{
			Enabled:         getEnvBool("DATABASE_ENABLED", false),
			Host:            getEnv("DATABASE_HOST", "localhost"),
			Port:            getEnvInt("DATABASE_PORT", 5432),
			Name:            getEnv("DATABASE_NAME", "matching_engine"),
			User:            getEnv("DATABASE_USER", "postgres"),
			Password:        getEnv("DATABASE_PASSWORD", ""),
			MaxConns:        getEnvInt("DATABASE_MAX_CONNECTIONS", 20),
			MinConns:        getEnvInt("DATABASE_MIN_CONNECTIONS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 5*time.Minute),
			SSLMode:         getEnv("DATABASE_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			MaxRetries:   getEnvInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			MaxTrades:    getEnvInt("REDIS_MAX_TRADES", 10000),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvBool("KAFKA_ENABLED", false),
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "trades"),
		},
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate engine config
	if c.Engine.NumInstruments < 1 {
		return fmt.Errorf("NUM_INSTRUMENTS must be > 0")
	}
	if c.Engine.SymbolPrefix == "" {
		return fmt.Errorf("SYMBOL_PREFIX cannot be empty")
	}
	if c.Engine.MatchInterval <= 0 {
		return fmt.Errorf("MATCH_INTERVAL must be > 0")
	}
	if c.Engine.TradeLogPath == "" {
		return fmt.Errorf("TRADE_LOG_PATH cannot be empty")
	}

	// Validate simulator config
	if c.Simulator.Producers < 1 {
		return fmt.Errorf("SIM_PRODUCERS must be > 0")
	}
	if c.Simulator.MinQuantity < 1 {
		return fmt.Errorf("SIM_MIN_QUANTITY must be > 0")
	}
	if c.Simulator.MaxQuantity < c.Simulator.MinQuantity {
		return fmt.Errorf("SIM_MAX_QUANTITY must be >= SIM_MIN_QUANTITY")
	}
	if c.Simulator.MinPrice <= 0 {
		return fmt.Errorf("SIM_MIN_PRICE must be > 0")
	}
	if c.Simulator.MaxPrice < c.Simulator.MinPrice {
		return fmt.Errorf("SIM_MAX_PRICE must be >= SIM_MIN_PRICE")
	}
	if c.Simulator.MinDelay < 0 || c.Simulator.MaxDelay < c.Simulator.MinDelay {
		return fmt.Errorf("SIM_MAX_DELAY must be >= SIM_MIN_DELAY >= 0")
	}

	// Validate logger config
	validLevels := map[string]bool{"DEBUG": true, "INFO": true, "WARN": true, "ERROR": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR")
	}

	// Validate memory config
	if c.Memory.Enabled && c.Memory.MaxTrades < 1 {
		return fmt.Errorf("MEMORY_MAX_TRADES must be > 0")
	}

	// Validate kafka config
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Brokers[0] == "" {
			return fmt.Errorf("KAFKA_BROKERS cannot be empty")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC cannot be empty")
		}
	}

	return nil
}

// Helper functions to read environment variables with defaults

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
