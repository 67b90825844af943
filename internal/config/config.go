// Package config loads the ledger's settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable with LEDGER_STORE.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreBolt     = "bolt"
)

// MaxLookbackDays bounds LEDGER_LOOKBACK_DAYS to one month.
const MaxLookbackDays = 31

// Config represents the application configuration.
type Config struct {
	Store    StoreConfig
	HTTPAddr string
	Kafka    KafkaConfig

	// CategoryFile replaces the built-in category catalog when set.
	CategoryFile string
	LookbackDays int
	LogLevel     string
	Debug        bool
}

// StoreConfig selects and locates the ledger store.
type StoreConfig struct {
	Backend     string
	SQLitePath  string
	PostgresDSN string
	BoltPath    string
}

// KafkaConfig configures ReportPosted publishing. No brokers disables it.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read if present; envPath names another one.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	lookback, err := parseIntEnv("LEDGER_LOOKBACK_DAYS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store: StoreConfig{
			Backend:     strings.ToLower(getEnvOrDefault("LEDGER_STORE", StoreMemory)),
			SQLitePath:  getEnvOrDefault("LEDGER_SQLITE_PATH", "data/ledger.db"),
			PostgresDSN: os.Getenv("LEDGER_POSTGRES_DSN"),
			BoltPath:    getEnvOrDefault("LEDGER_BOLT_PATH", "data/ledger.bolt"),
		},
		HTTPAddr: getEnvOrDefault("LEDGER_HTTP_ADDR", ":8080"),
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("LEDGER_KAFKA_BROKERS")),
			Topic:   getEnvOrDefault("LEDGER_KAFKA_TOPIC", "daily_report_posted"),
		},
		CategoryFile: os.Getenv("LEDGER_CATEGORY_FILE"),
		LookbackDays: lookback,
		LogLevel:     getEnvOrDefault("LEDGER_LOG_LEVEL", "info"),
		Debug:        os.Getenv("LEDGER_DEBUG") == "true",
	}

	return cfg, nil
}

// Validate reports every missing or inconsistent setting in one error.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("LEDGER_SQLITE_PATH is required for the sqlite store"))
		}
	case StorePostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("LEDGER_POSTGRES_DSN is required for the postgres store"))
		}
	case StoreBolt:
		if c.Store.BoltPath == "" {
			errs = append(errs, errors.New("LEDGER_BOLT_PATH is required for the bolt store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown LEDGER_STORE %q (want memory, sqlite, postgres or bolt)", c.Store.Backend))
	}

	if c.LookbackDays < 1 || c.LookbackDays > MaxLookbackDays {
		errs = append(errs, fmt.Errorf("LEDGER_LOOKBACK_DAYS must be between 1 and %d, got %d", MaxLookbackDays, c.LookbackDays))
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		errs = append(errs, errors.New("LEDGER_KAFKA_TOPIC must not be empty when brokers are set"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("LEDGER_HTTP_ADDR must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
