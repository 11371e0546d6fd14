package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "CLAIMDEX"

// Loader loads configuration with precedence ENV > file > defaults.
type Loader struct {
	configFile string
	envPrefix  string
}

// NewLoader creates a Loader. configFile may be empty, in which case only
// defaults and environment variables apply.
func NewLoader(configFile string) *Loader {
	return &Loader{configFile: configFile, envPrefix: EnvPrefix}
}

// Load reads, merges and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	l.setDefaults(v, DefaultConfig())

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configFile, err)
		}
	}

	v.SetEnvPrefix(l.envPrefix)
	l.bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (l *Loader) setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("service.environment", d.Service.Environment)

	v.SetDefault("http.port", d.HTTP.Port)
	v.SetDefault("http.read_timeout", d.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", d.HTTP.WriteTimeout)
	v.SetDefault("http.idle_timeout", d.HTTP.IdleTimeout)

	v.SetDefault("mongodb.database", d.MongoDB.Database)
	v.SetDefault("mongodb.collection", d.MongoDB.Collection)
	v.SetDefault("mongodb.connect_timeout", d.MongoDB.ConnectTimeout)
	v.SetDefault("mongodb.operation_timeout", d.MongoDB.OperationTimeout)

	v.SetDefault("query.default_page_size", d.Query.DefaultPageSize)
	v.SetDefault("query.max_page_size", d.Query.MaxPageSize)
	v.SetDefault("query.count_mode", d.Query.CountMode)

	v.SetDefault("generation.date_start", d.Generation.DateStart)
	v.SetDefault("generation.date_end", d.Generation.DateEnd)
	v.SetDefault("generation.batch_size", d.Generation.BatchSize)
	v.SetDefault("generation.seed", d.Generation.Seed)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// bindEnvVars binds every key explicitly; viper does not walk nested structs
// on its own. The MongoDB URI is env-only so connection strings never land
// in config files.
func (l *Loader) bindEnvVars(v *viper.Viper) {
	v.BindEnv("service.name", l.env("SERVICE_NAME"))
	v.BindEnv("service.environment", l.env("SERVICE_ENVIRONMENT"), l.env("ENVIRONMENT"))

	v.BindEnv("http.port", l.env("HTTP_PORT"))
	v.BindEnv("http.read_timeout", l.env("HTTP_READ_TIMEOUT"))
	v.BindEnv("http.write_timeout", l.env("HTTP_WRITE_TIMEOUT"))
	v.BindEnv("http.idle_timeout", l.env("HTTP_IDLE_TIMEOUT"))

	v.BindEnv("mongodb.uri", l.env("MONGODB_URI"), "MONGODB_URI")
	v.BindEnv("mongodb.database", l.env("MONGODB_DATABASE"))
	v.BindEnv("mongodb.collection", l.env("MONGODB_COLLECTION"))
	v.BindEnv("mongodb.connect_timeout", l.env("MONGODB_CONNECT_TIMEOUT"))
	v.BindEnv("mongodb.operation_timeout", l.env("MONGODB_OPERATION_TIMEOUT"))

	v.BindEnv("query.default_page_size", l.env("QUERY_DEFAULT_PAGE_SIZE"))
	v.BindEnv("query.max_page_size", l.env("QUERY_MAX_PAGE_SIZE"))
	v.BindEnv("query.count_mode", l.env("QUERY_COUNT_MODE"))

	v.BindEnv("logging.level", l.env("LOG_LEVEL"))
	v.BindEnv("logging.format", l.env("LOG_FORMAT"))
}

func (l *Loader) env(key string) string {
	return l.envPrefix + "_" + key
}

// Validate checks cross-field constraints. The MongoDB URI is not required
// here; commands that connect enforce it via RequireURI.
func (l *Loader) Validate(cfg *Config) error {
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in [1, 65535], got %d", cfg.HTTP.Port)
	}
	if cfg.MongoDB.Database == "" {
		return fmt.Errorf("mongodb.database is required")
	}
	if cfg.MongoDB.Collection == "" {
		return fmt.Errorf("mongodb.collection is required")
	}
	if cfg.Query.DefaultPageSize < 1 {
		return fmt.Errorf("query.default_page_size must be at least 1, got %d", cfg.Query.DefaultPageSize)
	}
	if cfg.Query.MaxPageSize < cfg.Query.DefaultPageSize {
		return fmt.Errorf("query.max_page_size %d is below query.default_page_size %d",
			cfg.Query.MaxPageSize, cfg.Query.DefaultPageSize)
	}
	if cfg.Query.CountMode != "separate" && cfg.Query.CountMode != "combined" {
		return fmt.Errorf("query.count_mode must be %q or %q, got %q", "separate", "combined", cfg.Query.CountMode)
	}
	if _, err := time.Parse("2006-01-02", cfg.Generation.DateStart); err != nil {
		return fmt.Errorf("generation.date_start: %w", err)
	}
	if _, err := time.Parse("2006-01-02", cfg.Generation.DateEnd); err != nil {
		return fmt.Errorf("generation.date_end: %w", err)
	}
	return nil
}

// RequireURI fails when no MongoDB URI is configured. Called by commands
// that actually connect.
func RequireURI(cfg *Config) error {
	if cfg.MongoDB.URI == "" {
		return fmt.Errorf("%s_MONGODB_URI (or MONGODB_URI) must be set in the environment when connecting to MongoDB", EnvPrefix)
	}
	return nil
}
