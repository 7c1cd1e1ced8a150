package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Ledger    LedgerConfig
	Reconcile ReconcileConfig
}

type ServerConfig struct {
	Host           string
	RequestTimeout time.Duration
}

// DatabaseConfig configures postgres. An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL           string
	MaxOpenConns  int
	QueryTimeout  time.Duration
	MigrationsDir string
}

type AuthConfig struct {
	JWTSecret string
	// DevAdminPassword seeds an "admin" user when running on the in-memory store.
	DevAdminPassword string
}

type LedgerConfig struct {
	MaxRetries   int
	RetryBackoff time.Duration
}

type ReconcileConfig struct {
	// Schedule is a cron expression; empty disables scheduled reconciliation.
	Schedule string
}

// Load reads environment variables, optionally from envFile, and validates
// the result. A missing .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	var errs []error
	cfg := &Config{
		Env: getenvWithDefault("APP_ENV", "development"),
		Server: ServerConfig{
			Host:           getenvWithDefault("APP_HOST", ":8080"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second, &errs),
		},
		Database: DatabaseConfig{
			URL:           os.Getenv("DATABASE_URL"),
			MaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 10, &errs),
			QueryTimeout:  getDuration("DB_QUERY_TIMEOUT", 5*time.Second, &errs),
			MigrationsDir: getenvWithDefault("MIGRATIONS_DIR", "migrations"),
		},
		Auth: AuthConfig{
			JWTSecret:        os.Getenv("JWT_SECRET"),
			DevAdminPassword: os.Getenv("DEV_ADMIN_PASSWORD"),
		},
		Ledger: LedgerConfig{
			MaxRetries:   getInt("LEDGER_MAX_RETRIES", 3, &errs),
			RetryBackoff: getDuration("LEDGER_RETRY_BACKOFF", 50*time.Millisecond, &errs),
		},
		Reconcile: ReconcileConfig{
			Schedule: getenvWithDefault("RECONCILE_SCHEDULE", "0 2 * * *"),
		},
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Host == "" {
		return errors.New("APP_HOST must be provided")
	}

	if c.Database.URL != "" && c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be provided when DATABASE_URL is set")
	}

	if c.IsProduction() && c.Database.URL == "" {
		return errors.New("DATABASE_URL must be provided in production")
	}

	if c.Database.MaxOpenConns < 1 {
		return errors.New("DB_MAX_OPEN_CONNS must be at least 1")
	}

	if c.Ledger.MaxRetries < 0 {
		return errors.New("LEDGER_MAX_RETRIES must not be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

func (c *Config) UsesMemoryStore() bool {
	return c.Database.URL == ""
}

func getenvWithDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer: %w", key, err))
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be a duration: %w", key, err))
		return fallback
	}
	return d
}
