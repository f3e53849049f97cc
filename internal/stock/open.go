package stock

import (
	"context"
	"fmt"

	"github.com/rx-rule-validator/internal/domain"
)

// Open creates the store selected by the configuration.
func Open(ctx context.Context, cfg domain.StockConfig) (Store, error) {
	switch cfg.Driver {
	case domain.StockDriverMemory, "":
		seed, err := SeedFromConfig(cfg.Seed)
		if err != nil {
			return nil, err
		}
		return NewMemoryStore(seed)
	case domain.StockDriverSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case domain.StockDriverPostgres:
		return NewPostgresStoreFromURL(ctx, cfg.PostgresURL)
	default:
		return nil, fmt.Errorf("unsupported stock driver: %s", cfg.Driver)
	}
}

// SeedFromConfig converts configured medication codes to a stock snapshot.
func SeedFromConfig(seed map[string]int) (domain.Stock, error) {
	out := make(domain.Stock, len(seed))
	for code, units := range seed {
		med, err := domain.ParseMedication(code)
		if err != nil {
			return nil, fmt.Errorf("stock seed: %w", err)
		}
		if err := validateLevel(med, units); err != nil {
			return nil, fmt.Errorf("stock seed: %w", err)
		}
		out[med] = units
	}
	return out, nil
}
