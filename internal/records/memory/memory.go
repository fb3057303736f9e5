// Package memory provides an in-memory Store used by tests and by the
// worker's dry-run mode. All methods are safe for concurrent use.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"frota/internal/core"
	"frota/internal/records"
)

// Store keeps every collection in maps guarded by one mutex. List
// results are sorted copies, so callers can mutate them freely.
type Store struct {
	mu           sync.RWMutex
	vehicles     map[string]core.Vehicle
	categories   map[string]core.Category
	transactions map[string]core.Transaction
	fuelings     map[string]core.Fueling
}

var _ records.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		vehicles:     make(map[string]core.Vehicle),
		categories:   make(map[string]core.Category),
		transactions: make(map[string]core.Transaction),
		fuelings:     make(map[string]core.Fueling),
	}
}

func (s *Store) ListVehicles(_ context.Context) ([]core.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetVehicle(_ context.Context, id string) (core.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vehicles[id]
	if !ok {
		return core.Vehicle{}, records.ErrNotFound
	}
	return v, nil
}

func (s *Store) CreateVehicle(_ context.Context, v core.Vehicle) (core.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	s.vehicles[v.ID] = v
	return v, nil
}

func (s *Store) UpdateVehicle(_ context.Context, v core.Vehicle) (core.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[v.ID]; !ok {
		return core.Vehicle{}, records.ErrNotFound
	}
	s.vehicles[v.ID] = v
	return v, nil
}

func (s *Store) DeleteVehicle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.vehicles[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.vehicles, id)
	return nil
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id string) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return core.Category{}, records.ErrNotFound
	}
	return c, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return core.Category{}, records.ErrNotFound
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c > 0 // newest first
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	if !ok {
		return core.Transaction{}, records.ErrNotFound
	}
	return t, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[t.ID]; !ok {
		return core.Transaction{}, records.ErrNotFound
	}
	s.transactions[t.ID] = t
	return t, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListFuelings(_ context.Context) ([]core.Fueling, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Fueling, 0, len(s.fuelings))
	for _, f := range s.fuelings {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c > 0
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetFueling(_ context.Context, id string) (core.Fueling, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fuelings[id]
	if !ok {
		return core.Fueling{}, records.ErrNotFound
	}
	return f, nil
}

func (s *Store) CreateFueling(_ context.Context, f core.Fueling) (core.Fueling, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.fuelings[f.ID] = f
	return f, nil
}

func (s *Store) UpdateFueling(_ context.Context, f core.Fueling) (core.Fueling, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fuelings[f.ID]; !ok {
		return core.Fueling{}, records.ErrNotFound
	}
	s.fuelings[f.ID] = f
	return f, nil
}

func (s *Store) DeleteFueling(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.fuelings[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.fuelings, id)
	return nil
}
