package domain

// Config represents the main application configuration
type Config struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Stock   StockConfig   `mapstructure:"stock"`
	Pricing PricingConfig `mapstructure:"pricing"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// StockConfig selects and configures the stock snapshot source
type StockConfig struct {
	Driver      string         `mapstructure:"driver"` // memory, sqlite, postgres
	SQLitePath  string         `mapstructure:"sqlite_path"`
	PostgresURL string         `mapstructure:"postgres_url"`
	Seed        map[string]int `mapstructure:"seed"`
}

// PricingConfig configures invoice rendering for delivery pricing
type PricingConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Stock drivers
const (
	StockDriverMemory   = "memory"
	StockDriverSQLite   = "sqlite"
	StockDriverPostgres = "postgres"
)
