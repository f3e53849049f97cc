package stock

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/rx-rule-validator/internal/domain"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL stock store over an open connection.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL opens a connection, ensures the schema and creates the store.
func NewPostgresStoreFromURL(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the stock table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS stock_levels (
			medication TEXT PRIMARY KEY,
			units INTEGER NOT NULL CHECK (units >= 0),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Snapshot returns the current units of every stocked medication.
func (s *PostgresStore) Snapshot(ctx context.Context) (domain.Stock, error) {
	levels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotFromLevels(levels)
}

// Get returns the level of one medication.
func (s *PostgresStore) Get(ctx context.Context, med domain.Medication) (*Level, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT medication, units, updated_at FROM stock_levels WHERE medication = $1",
		string(med))

	l, err := scanLevel(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}
	return l, nil
}

// Set stores the unit count of a medication.
func (s *PostgresStore) Set(ctx context.Context, med domain.Medication, units int) error {
	if err := validateLevel(med, units); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_levels (medication, units, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (medication) DO UPDATE SET
			units = EXCLUDED.units,
			updated_at = EXCLUDED.updated_at
	`, string(med), units, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert: %w", err)
	}
	return nil
}

// List returns all levels ordered by medication.
func (s *PostgresStore) List(ctx context.Context) ([]*Level, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT medication, units, updated_at FROM stock_levels ORDER BY medication")
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Level
	for rows.Next() {
		l, err := scanLevel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
