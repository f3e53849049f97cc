package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	m, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	cfg := m.GetConfig()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)
	assert.Equal(t, "memory", cfg.Stock.Driver)
	assert.Equal(t, 5, cfg.Stock.Seed["w"])
	assert.Equal(t, "€", cfg.Pricing.CurrencySymbol)
	assert.Empty(t, m.ConfigFileUsed())
}

func TestNewManager_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxcheck.yaml")
	content := `
logging:
  level: debug
  format: json
stock:
  driver: sqlite
  sqlite_path: /var/lib/rxcheck/stock.db
  seed:
    W: 2
    X: 9
pricing:
  currency_symbol: "$"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, "debug", m.GetLoggingConfig().Level)
	assert.Equal(t, "json", m.GetLoggingConfig().Format)
	assert.Equal(t, "sqlite", m.GetStockConfig().Driver)
	assert.Equal(t, "/var/lib/rxcheck/stock.db", m.GetStockConfig().SQLitePath)
	assert.Equal(t, map[string]int{"w": 2, "x": 9}, m.GetStockConfig().Seed)
	assert.Equal(t, "$", m.GetConfig().Pricing.CurrencySymbol)
	assert.Equal(t, path, m.ConfigFileUsed())
}

func TestNewManager_ConfiguredSeedReplacesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rxcheck.yaml")
	content := `
stock:
  seed:
    X: 9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	m, err := NewManager(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"x": 9}, m.GetStockConfig().Seed)
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RXCHECK_LOGGING_LEVEL", "warn")
	t.Setenv("RXCHECK_STOCK_DRIVER", "postgres")
	t.Setenv("RXCHECK_STOCK_POSTGRES_URL", "postgres://localhost/rx")

	m, err := NewManager("")
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.Equal(t, "warn", m.GetLoggingConfig().Level)
	assert.Equal(t, "postgres", m.GetStockConfig().Driver)
	assert.Equal(t, "postgres://localhost/rx", m.GetStockConfig().PostgresURL)
}

func TestNewManager_MissingExplicitFile(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"Invalid log level", map[string]string{"RXCHECK_LOGGING_LEVEL": "loud"}, true},
		{"Invalid log format", map[string]string{"RXCHECK_LOGGING_FORMAT": "xml"}, true},
		{"Invalid stock driver", map[string]string{"RXCHECK_STOCK_DRIVER": "redis"}, true},
		{"Postgres without URL", map[string]string{"RXCHECK_STOCK_DRIVER": "postgres"}, true},
		{"SQLite with default path", map[string]string{"RXCHECK_STOCK_DRIVER": "sqlite"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			m, err := NewManager("")
			require.NoError(t, err)

			err = m.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
