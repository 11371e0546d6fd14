// Package config loads and validates service configuration.
package config

import "time"

// Config is the root configuration for the service.
type Config struct {
	Service    ServiceConfig    `mapstructure:"service"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	MongoDB    MongoDBConfig    `mapstructure:"mongodb"`
	Query      QueryConfig      `mapstructure:"query"`
	Generation GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServiceConfig identifies the service instance.
type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// MongoDBConfig configures the storage collaborator. URI is a secret and is
// only ever read from the environment, never from the config file.
type MongoDBConfig struct {
	URI              string        `mapstructure:"uri"`
	Database         string        `mapstructure:"database"`
	Collection       string        `mapstructure:"collection"`
	ConnectTimeout   time.Duration `mapstructure:"connect_timeout"`
	OperationTimeout time.Duration `mapstructure:"operation_timeout"`
}

// QueryConfig bounds the pagination engine.
type QueryConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size"`
	MaxPageSize     int    `mapstructure:"max_page_size"`
	CountMode       string `mapstructure:"count_mode"`
}

// GenerationTier is one band of providers sharing a claim volume.
type GenerationTier struct {
	Providers         int `mapstructure:"providers"`
	ClaimsPerProvider int `mapstructure:"claims_per_provider"`
}

// GenerationConfig controls the synthetic data generator.
type GenerationConfig struct {
	Tiers     []GenerationTier `mapstructure:"tiers"`
	DateStart string           `mapstructure:"date_start"`
	DateEnd   string           `mapstructure:"date_end"`
	BatchSize int              `mapstructure:"batch_size"`
	Seed      int64            `mapstructure:"seed"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults. Everything except the MongoDB
// URI has a usable default.
func DefaultConfig() Config {
	return Config{
		Service: ServiceConfig{
			Name:        "claimdex",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		MongoDB: MongoDBConfig{
			Database:         "pov_claims",
			Collection:       "claims",
			ConnectTimeout:   5 * time.Second,
			OperationTimeout: 10 * time.Second,
		},
		Query: QueryConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
			CountMode:       "separate",
		},
		Generation: GenerationConfig{
			DateStart: "2000-01-01",
			DateEnd:   "2024-12-31",
			BatchSize: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
