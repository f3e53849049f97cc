package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rx-rule-validator/internal/domain"
)

// Manager loads configuration using Viper
type Manager struct {
	v      *viper.Viper
	config *domain.Config
}

// NewManager creates a new configuration manager. An empty configFile searches
// the default locations; a missing default file is not an error.
func NewManager(configFile string) (*Manager, error) {
	m := &Manager{v: viper.New()}
	if err := m.loadConfig(configFile); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig(configFile string) error {
	v := m.v

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("rxcheck")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/rxcheck/")
	}

	// Set environment variable prefix and enable automatic env binding
	v.SetEnvPrefix("RXCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	m.setDefaults()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	// The demo seed applies only when no seed is configured at all; viper
	// would otherwise merge it key by key into a configured seed.
	if !v.IsSet("stock.seed") {
		config.Stock.Seed = defaultStockSeed()
	}

	m.config = config
	return nil
}

// defaultStockSeed returns the stock seeded into the memory store when none is configured.
func defaultStockSeed() map[string]int {
	return map[string]int{"w": 5}
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	v := m.v

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")

	// Stock defaults
	v.SetDefault("stock.driver", domain.StockDriverMemory)
	v.SetDefault("stock.sqlite_path", "rxcheck-stock.db")
	v.SetDefault("stock.postgres_url", "")

	// Pricing defaults
	v.SetDefault("pricing.currency_symbol", "€")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// GetStockConfig returns stock source configuration
func (m *Manager) GetStockConfig() *domain.StockConfig {
	return &m.config.Stock
}

// ConfigFileUsed returns the path of the loaded config file, if any
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	// Validate stock configuration
	switch config.Stock.Driver {
	case domain.StockDriverMemory:
	case domain.StockDriverSQLite:
		if config.Stock.SQLitePath == "" {
			return fmt.Errorf("stock sqlite_path is required for the sqlite driver")
		}
	case domain.StockDriverPostgres:
		if config.Stock.PostgresURL == "" {
			return fmt.Errorf("stock postgres_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid stock driver: %s", config.Stock.Driver)
	}

	return nil
}
