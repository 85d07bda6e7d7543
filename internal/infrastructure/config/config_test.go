package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billingEnvKeys = []string{
	"BILLING_APP_NAME",
	"BILLING_APP_ENV",
	"BILLING_APP_PORT",
	"BILLING_APP_TIMEZONE",
	"BILLING_DATABASE_DRIVER",
	"BILLING_DATABASE_HOST",
	"BILLING_DATABASE_PORT",
	"BILLING_DATABASE_PASSWORD",
	"BILLING_DATABASE_SSLMODE",
	"BILLING_DATABASE_PATH",
	"BILLING_DATABASE_MAX_OPEN_CONNS",
	"BILLING_DATABASE_MAX_IDLE_CONNS",
	"BILLING_DOCUMENTS_ENGINE",
	"BILLING_DOCUMENTS_BASE_PATH",
	"BILLING_STORAGE_ENABLED",
	"BILLING_STORAGE_BUCKET",
	"BILLING_IDEMPOTENCY_BACKEND",
	"BILLING_TELEMETRY_SAMPLING_RATIO",
	"BILLING_SWAGGER_ENABLED",
}

// clearEnv unsets every BILLING_ key for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range billingEnvKeys {
		if v, ok := os.LookupEnv(k); ok {
			t.Cleanup(func() { os.Setenv(k, v) })
		}
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "billing", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "billing", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, EngineFPDF, cfg.Documents.Engine)
		assert.Equal(t, "data/invoices", cfg.Documents.BasePath)
		assert.Equal(t, "Imperial Binding Works", cfg.Documents.BusinessName)
		assert.Equal(t, "Book Binding & Finishing", cfg.Documents.BusinessSubtitle)
		assert.Equal(t, "memory", cfg.Idempotency.Backend)
		assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
		assert.Equal(t, "billing", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with BILLING prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_APP_NAME", "bindery")
		t.Setenv("BILLING_APP_PORT", "9000")
		t.Setenv("BILLING_DATABASE_DRIVER", "sqlite")
		t.Setenv("BILLING_DATABASE_PATH", "/tmp/bindery.db")
		t.Setenv("BILLING_DOCUMENTS_BASE_PATH", "/srv/invoices")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "bindery", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "/tmp/bindery.db", cfg.Database.DSN())
		assert.Equal(t, "/srv/invoices", cfg.Documents.BasePath)
	})

	t.Run("mysql gets its own default port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_DATABASE_DRIVER", "mysql")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 3306, cfg.Database.Port)
		assert.Contains(t, cfg.Database.DSN(), "@tcp(localhost:3306)/billing")
		assert.Contains(t, cfg.Database.DSN(), "parseTime=true")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_DATABASE_DRIVER", "oracle")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("BILLING_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown pdf engine", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_DOCUMENTS_ENGINE", "latex")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "documents.engine")
	})

	t.Run("storage requires bucket when enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_APP_TIMEZONE", "Mars/Olympus_Mons")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.timezone")
	})

	t.Run("sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_Production(t *testing.T) {
	t.Run("requires database password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")
	})

	t.Run("rejects disabled sslmode", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_APP_ENV", "production")
		t.Setenv("BILLING_DATABASE_PASSWORD", "s3cret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("sqlite needs no password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BILLING_APP_ENV", "production")
		t.Setenv("BILLING_DATABASE_DRIVER", "sqlite")

		_, err := Load()
		assert.NoError(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "billing.toml")
	content := `
[app]
name = "from-file"
timezone = "UTC"

[database]
driver = "sqlite"
path = "file.db"

[documents]
currency_symbol = "INR"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.App.Name)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "INR", cfg.Documents.CurrencySymbol)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_PostgresURL(t *testing.T) {
	d := DatabaseConfig{
		Driver:   DriverPostgres,
		User:     "bind",
		Password: "p@ss/word",
		Host:     "db",
		Port:     5432,
		DBName:   "billing",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://bind:p%40ss%2Fword@db:5432/billing")
	assert.Contains(t, dsn, "sslmode=require")
}
