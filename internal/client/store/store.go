package store

import (
	"context"
	"sync"

	"github.com/carhub/car-inventory/internal/car/domain"
)

// Service is the network contract the store depends on; satisfied by
// the REST client.
type Service interface {
	Create(ctx context.Context, draft domain.CarDraft) (*domain.Car, error)
	ListAll(ctx context.Context) ([]*domain.Car, error)
	GetOne(ctx context.Context, id string) (*domain.Car, error)
	Update(ctx context.Context, id string, patch domain.CarPatch) (*domain.Car, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]*domain.Car, error)
}

// Store is the client-held cache of the principal's cars. Every
// mutating operation performs the network call first; only on success
// is the cache patched, so a failure leaves the cache exactly at its
// pre-call state and the error propagates unchanged.
//
// Overlapping mutations on the same id are not serialized: the last
// network response wins, mirroring the server.
type Store struct {
	svc  Service
	mu   sync.RWMutex
	cars []*domain.Car
}

func NewStore(svc Service) *Store {
	return &Store{svc: svc}
}

// Refresh fetches the full listing set and replaces the cache
// wholesale. Ordering is whatever the server returned.
func (s *Store) Refresh(ctx context.Context) error {
	cars, err := s.svc.ListAll(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cars = cars
	s.mu.Unlock()
	return nil
}

// Create persists a new car and appends it to the cache.
func (s *Store) Create(ctx context.Context, draft domain.CarDraft) (*domain.Car, error) {
	created, err := s.svc.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cars = append(s.cars, created)
	s.mu.Unlock()
	return created, nil
}

// Update persists the patch and substitutes the cached entry. When the
// id is no longer cached the substitution is a no-op but the operation
// still succeeds: the server's copy is authoritative.
func (s *Store) Update(ctx context.Context, id string, patch domain.CarPatch) (*domain.Car, error) {
	updated, err := s.svc.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i, car := range s.cars {
		if car.ID == id {
			s.cars[i] = updated
			break
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// Delete removes the car remotely and drops it from the cache; absent
// ids are a local no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	for i, car := range s.cars {
		if car.ID == id {
			s.cars = append(s.cars[:i], s.cars[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// Search runs the server-side indexed search and replaces the cache
// with the result set, like the dashboard's explicit search action.
func (s *Store) Search(ctx context.Context, query string) ([]*domain.Car, error) {
	cars, err := s.svc.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cars = cars
	s.mu.Unlock()
	return cars, nil
}

// Cars returns a snapshot of the cache in its current order.
func (s *Store) Cars() []*domain.Car {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Car, len(s.cars))
	copy(out, s.cars)
	return out
}

// CanEdit gates edit/delete affordances client-side. It is advisory
// only; the server re-checks the same predicate.
func (s *Store) CanEdit(principalID string, car *domain.Car) bool {
	return domain.CanMutate(principalID, car)
}
