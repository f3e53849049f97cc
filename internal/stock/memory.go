package stock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rx-rule-validator/internal/domain"
)

// MemoryStore keeps stock levels in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	levels map[domain.Medication]Level
}

// NewMemoryStore creates a store seeded with the given snapshot.
func NewMemoryStore(seed domain.Stock) (*MemoryStore, error) {
	s := &MemoryStore{levels: make(map[domain.Medication]Level, len(seed))}
	for med, units := range seed {
		if err := s.Set(context.Background(), med, units); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Snapshot returns a copy of the current levels.
func (s *MemoryStore) Snapshot(_ context.Context) (domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(domain.Stock, len(s.levels))
	for med, l := range s.levels {
		snap[med] = l.Units
	}
	return snap, nil
}

// Get returns the level of one medication.
func (s *MemoryStore) Get(_ context.Context, med domain.Medication) (*Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.levels[med]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

// Set stores the unit count of a medication.
func (s *MemoryStore) Set(_ context.Context, med domain.Medication, units int) error {
	if err := validateLevel(med, units); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels[med] = Level{Medication: med, Units: units, UpdatedAt: time.Now().UTC()}
	return nil
}

// List returns all levels ordered by medication.
func (s *MemoryStore) List(_ context.Context) ([]*Level, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Level, 0, len(s.levels))
	for _, l := range s.levels {
		l := l
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Medication < out[j].Medication })
	return out, nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
