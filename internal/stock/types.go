// Package stock provides stock snapshot sources for prescription validation.
// A Store holds the available units per medication; the validator only ever
// sees the read-only domain.Stock returned by Snapshot.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rx-rule-validator/internal/domain"
)

// Level is the stored unit count for one medication.
type Level struct {
	Medication domain.Medication `json:"medication"`
	Units      int               `json:"units"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store defines the interface for stock storage operations.
type Store interface {
	// Snapshot returns the current units of every stocked medication.
	Snapshot(ctx context.Context) (domain.Stock, error)

	// Get returns the level of one medication, or nil if it is not stocked.
	Get(ctx context.Context, med domain.Medication) (*Level, error)

	// Set stores the unit count of a medication, replacing any previous value.
	Set(ctx context.Context, med domain.Medication, units int) error

	// List returns all levels ordered by medication.
	List(ctx context.Context) ([]*Level, error)

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Levels     []*Level  `json:"levels"`
}

const exportVersion = "1.0"

// validateLevel rejects unknown medications and negative counts. The returned
// error matches both the domain sentinel and *domain.ValidationError.
func validateLevel(med domain.Medication, units int) error {
	if !med.IsValid() {
		return fmt.Errorf("%w: %w", domain.ErrUnknownMedication,
			domain.NewValidationError("medication", "not a known medication", string(med)))
	}
	if units < 0 {
		return fmt.Errorf("%w: %w", domain.ErrNegativeUnits,
			domain.NewValidationError("units", "must not be negative", units))
	}
	return nil
}

// snapshotFromLevels builds a domain.Stock from stored levels.
func snapshotFromLevels(levels []*Level) (domain.Stock, error) {
	snap := make(domain.Stock, len(levels))
	for _, l := range levels {
		snap[l.Medication] = l.Units
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stored stock: %w", err)
	}
	return snap, nil
}

// ExportJSON writes all levels of the store as JSON.
func ExportJSON(ctx context.Context, s Store, writer io.Writer) error {
	levels, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list stock: %w", err)
	}

	export := &Export{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC(),
		Count:      len(levels),
		Levels:     levels,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// ImportJSON reads an export and sets every level it contains. The whole
// document is validated before anything is written.
func ImportJSON(ctx context.Context, s Store, reader io.Reader) (int, error) {
	var export Export
	if err := json.NewDecoder(reader).Decode(&export); err != nil {
		return 0, fmt.Errorf("failed to decode JSON: %w", err)
	}

	for i, l := range export.Levels {
		if l == nil {
			return 0, fmt.Errorf("invalid level at index %d: %w", i,
				domain.NewValidationError("levels", "entry must be an object", nil))
		}
		if err := validateLevel(l.Medication, l.Units); err != nil {
			return 0, fmt.Errorf("invalid level for %q: %w", l.Medication, err)
		}
	}

	imported := 0
	for _, l := range export.Levels {
		if err := s.Set(ctx, l.Medication, l.Units); err != nil {
			return imported, fmt.Errorf("failed to save %s: %w", l.Medication, err)
		}
		imported++
	}
	return imported, nil
}
