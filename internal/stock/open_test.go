package stock

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rx-rule-validator/internal/domain"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("Memory with lower-case seed keys", func(t *testing.T) {
		store, err := Open(ctx, domain.StockConfig{Driver: "memory", Seed: map[string]int{"w": 5}})
		require.NoError(t, err)
		defer store.Close()

		snap, err := store.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Stock{domain.MedicationW: 5}, snap)
	})

	t.Run("SQLite", func(t *testing.T) {
		store, err := Open(ctx, domain.StockConfig{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "s.db")})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &SQLiteStore{}, store)
	})

	t.Run("Unknown driver", func(t *testing.T) {
		_, err := Open(ctx, domain.StockConfig{Driver: "redis"})
		assert.Error(t, err)
	})

	t.Run("Invalid seed", func(t *testing.T) {
		_, err := Open(ctx, domain.StockConfig{Driver: "memory", Seed: map[string]int{"q": 5}})
		assert.Error(t, err)
	})
}
