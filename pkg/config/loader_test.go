package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "claimdex" {
		t.Errorf("service.name = %q, want claimdex", cfg.Service.Name)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("http.port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.MongoDB.Database != "pov_claims" || cfg.MongoDB.Collection != "claims" {
		t.Errorf("mongodb defaults = %q/%q, want pov_claims/claims", cfg.MongoDB.Database, cfg.MongoDB.Collection)
	}
	if cfg.MongoDB.OperationTimeout != 10*time.Second {
		t.Errorf("mongodb.operation_timeout = %v, want 10s", cfg.MongoDB.OperationTimeout)
	}
	if cfg.Query.DefaultPageSize != 100 || cfg.Query.MaxPageSize != 1000 {
		t.Errorf("query page sizes = %d/%d, want 100/1000", cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize)
	}
	if cfg.Query.CountMode != "separate" {
		t.Errorf("query.count_mode = %q, want separate", cfg.Query.CountMode)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging defaults = %q/%q, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.MongoDB.URI != "" {
		t.Errorf("mongodb.uri = %q, want empty without env", cfg.MongoDB.URI)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
service:
  name: claims-api
  environment: staging
http:
  port: 9090
mongodb:
  database: claims_staging
query:
  default_page_size: 50
  max_page_size: 200
  count_mode: combined
logging:
  level: debug
  format: console
`)

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Service.Name != "claims-api" || cfg.Service.Environment != "staging" {
		t.Errorf("service = %q/%q, want claims-api/staging", cfg.Service.Name, cfg.Service.Environment)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("http.port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.MongoDB.Database != "claims_staging" {
		t.Errorf("mongodb.database = %q, want claims_staging", cfg.MongoDB.Database)
	}
	if cfg.MongoDB.Collection != "claims" {
		t.Errorf("mongodb.collection = %q, want default claims", cfg.MongoDB.Collection)
	}
	if cfg.Query.DefaultPageSize != 50 || cfg.Query.MaxPageSize != 200 || cfg.Query.CountMode != "combined" {
		t.Errorf("query = %d/%d/%q, want 50/200/combined",
			cfg.Query.DefaultPageSize, cfg.Query.MaxPageSize, cfg.Query.CountMode)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("logging = %q/%q, want debug/console", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
http:
  port: 9090
query:
  count_mode: separate
`)

	t.Setenv("CLAIMDEX_HTTP_PORT", "7070")
	t.Setenv("CLAIMDEX_QUERY_COUNT_MODE", "combined")
	t.Setenv("CLAIMDEX_LOG_LEVEL", "warn")

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Port != 7070 {
		t.Errorf("http.port = %d, want env override 7070", cfg.HTTP.Port)
	}
	if cfg.Query.CountMode != "combined" {
		t.Errorf("query.count_mode = %q, want env override combined", cfg.Query.CountMode)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want env override warn", cfg.Logging.Level)
	}
}

func TestLoadMongoURIFromEnvOnly(t *testing.T) {
	t.Run("prefixed variable", func(t *testing.T) {
		t.Setenv("CLAIMDEX_MONGODB_URI", "mongodb://prefixed:27017")
		cfg, err := NewLoader("").Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.MongoDB.URI != "mongodb://prefixed:27017" {
			t.Errorf("mongodb.uri = %q, want prefixed env value", cfg.MongoDB.URI)
		}
	})

	t.Run("bare variable", func(t *testing.T) {
		t.Setenv("MONGODB_URI", "mongodb://bare:27017")
		cfg, err := NewLoader("").Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.MongoDB.URI != "mongodb://bare:27017" {
			t.Errorf("mongodb.uri = %q, want bare env value", cfg.MongoDB.URI)
		}
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	if err == nil {
		t.Fatal("Load succeeded with a nonexistent config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		return &cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults pass", func(cfg *Config) {}, ""},
		{"port zero", func(cfg *Config) { cfg.HTTP.Port = 0 }, "http.port"},
		{"port too high", func(cfg *Config) { cfg.HTTP.Port = 70000 }, "http.port"},
		{"missing database", func(cfg *Config) { cfg.MongoDB.Database = "" }, "mongodb.database"},
		{"missing collection", func(cfg *Config) { cfg.MongoDB.Collection = "" }, "mongodb.collection"},
		{"default page size zero", func(cfg *Config) { cfg.Query.DefaultPageSize = 0 }, "default_page_size"},
		{"max below default", func(cfg *Config) { cfg.Query.MaxPageSize = 10 }, "max_page_size"},
		{"bad count mode", func(cfg *Config) { cfg.Query.CountMode = "estimate" }, "count_mode"},
		{"bad generation start", func(cfg *Config) { cfg.Generation.DateStart = "January 1st" }, "date_start"},
		{"bad generation end", func(cfg *Config) { cfg.Generation.DateEnd = "2024-13-99" }, "date_end"},
	}

	loader := NewLoader("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := loader.Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestRequireURI(t *testing.T) {
	cfg := DefaultConfig()
	if err := RequireURI(&cfg); err == nil {
		t.Error("RequireURI passed with no URI configured")
	}
	cfg.MongoDB.URI = "mongodb://localhost:27017"
	if err := RequireURI(&cfg); err != nil {
		t.Errorf("RequireURI: %v", err)
	}
}
