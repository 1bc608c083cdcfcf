package store

import (
	"strings"

	"github.com/carhub/car-inventory/internal/car/domain"
)

// Filter returns the cached cars whose title, description or any tag
// value contains the query, case-insensitively. An empty query matches
// everything. The result preserves cache order; the filter is a pure
// function of (cache, query) and holds no state of its own.
func (s *Store) Filter(query string) []*domain.Car {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		out := make([]*domain.Car, len(s.cars))
		copy(out, s.cars)
		return out
	}

	out := make([]*domain.Car, 0, len(s.cars))
	for _, car := range s.cars {
		if matches(car, q) {
			out = append(out, car)
		}
	}
	return out
}

// matches expects q to be lower-cased already.
func matches(car *domain.Car, q string) bool {
	if strings.Contains(strings.ToLower(car.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(car.Description), q) {
		return true
	}
	for _, v := range car.Tags.Values() {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
