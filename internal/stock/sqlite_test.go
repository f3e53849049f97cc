package stock

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rx-rule-validator/internal/domain"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "stock.db"))
	require.NoError(t, err)
	return store
}

func TestNewSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "stock.db")

	store, err := NewSQLiteStore(dbPath)

	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "Database file should exist")
}

func TestSQLiteStore_SetAndSnapshot(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.MedicationW, 2))
	require.NoError(t, store.Set(ctx, domain.MedicationX, 7))
	require.NoError(t, store.Set(ctx, domain.MedicationW, 4))

	snap, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stock{domain.MedicationW: 4, domain.MedicationX: 7}, snap)
}

func TestSQLiteStore_Get(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	missing, err := store.Get(ctx, domain.MedicationW)
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Set(ctx, domain.MedicationW, 3))
	level, err := store.Get(ctx, domain.MedicationW)
	require.NoError(t, err)
	require.NotNil(t, level)
	assert.Equal(t, domain.MedicationW, level.Medication)
	assert.Equal(t, 3, level.Units)
}

func TestSQLiteStore_SetRejectsInvalid(t *testing.T) {
	store := createTestStore(t)
	defer store.Close()
	ctx := context.Background()

	assert.Error(t, store.Set(ctx, domain.MedicationW, -1))
	assert.Error(t, store.Set(ctx, "Q", 1))

	levels, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, levels)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stock.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, domain.MedicationW, 6))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	snap, err := reopened.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Units(domain.MedicationW))
}
