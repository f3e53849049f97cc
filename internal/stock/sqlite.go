package stock

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rx-rule-validator/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite stock store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanLevel scans a row into a Level struct.
func scanLevel(s scanner) (*Level, error) {
	l := &Level{}
	var med string
	if err := s.Scan(&med, &l.Units, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Medication = domain.Medication(med)
	return l, nil
}

// createSchema creates the stock table.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS stock_levels (
		medication TEXT PRIMARY KEY,
		units INTEGER NOT NULL CHECK (units >= 0),
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(schema)
	return err
}

// Snapshot returns the current units of every stocked medication.
func (s *SQLiteStore) Snapshot(ctx context.Context) (domain.Stock, error) {
	levels, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return snapshotFromLevels(levels)
}

// Get returns the level of one medication.
func (s *SQLiteStore) Get(ctx context.Context, med domain.Medication) (*Level, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT medication, units, updated_at FROM stock_levels WHERE medication = ?",
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
func (s *SQLiteStore) Set(ctx context.Context, med domain.Medication, units int) error {
	if err := validateLevel(med, units); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stock_levels (medication, units, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(medication) DO UPDATE SET
			units = excluded.units,
			updated_at = excluded.updated_at
	`, string(med), units, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert: %w", err)
	}
	return nil
}

// List returns all levels ordered by medication.
func (s *SQLiteStore) List(ctx context.Context) ([]*Level, error) {
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
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
