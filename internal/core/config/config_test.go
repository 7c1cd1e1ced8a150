package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "APP_HOST", "REQUEST_TIMEOUT", "DATABASE_URL", "DB_MAX_OPEN_CONNS", "DB_QUERY_TIMEOUT",
	"MIGRATIONS_DIR", "JWT_SECRET", "DEV_ADMIN_PASSWORD", "LEDGER_MAX_RETRIES", "LEDGER_RETRY_BACKOFF",
	"RECONCILE_SCHEDULE",
}

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, 50*time.Millisecond, cfg.Ledger.RetryBackoff)
	assert.Equal(t, "0 2 * * *", cfg.Reconcile.Schedule)
	assert.True(t, cfg.UsesMemoryStore())
}

func TestLoad_FromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "DATABASE_URL=postgres://localhost/sispras?sslmode=disable\nJWT_SECRET=s3cret\nLEDGER_RETRY_BACKOFF=10ms\nRECONCILE_SCHEDULE=\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.False(t, cfg.UsesMemoryStore())
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 10*time.Millisecond, cfg.Ledger.RetryBackoff)
	assert.Empty(t, cfg.Reconcile.Schedule)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"database without jwt secret", map[string]string{"DATABASE_URL": "postgres://localhost/sispras"}},
		{"production without database", map[string]string{"APP_ENV": "production"}},
		{"empty host", map[string]string{"APP_HOST": ""}},
		{"malformed duration", map[string]string{"DB_QUERY_TIMEOUT": "five seconds"}},
		{"malformed integer", map[string]string{"LEDGER_MAX_RETRIES": "many"}},
		{"negative retries", map[string]string{"LEDGER_MAX_RETRIES": "-1"}},
		{"no connections", map[string]string{"DB_MAX_OPEN_CONNS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tt.env {
				os.Setenv(key, value)
			}

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}
