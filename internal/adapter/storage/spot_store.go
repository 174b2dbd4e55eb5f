// internal/adapter/storage/spot_store.go

package storage

import (
	"sync"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
)

// SpotStore holds a session's spots in memory, newest first
type SpotStore struct {
	spots []spot.ParkingSpot
	mutex sync.RWMutex
}

// NewSpotStore creates a store holding the given spots in order
func NewSpotStore(initial []spot.ParkingSpot) *SpotStore {
	spots := make([]spot.ParkingSpot, len(initial))
	copy(spots, initial)

	return &SpotStore{spots: spots}
}

// Prepend adds a spot at the front of the collection
func (s *SpotStore) Prepend(sp spot.ParkingSpot) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.spots = append([]spot.ParkingSpot{sp}, s.spots...)
}

// Get retrieves a spot by its ID
func (s *SpotStore) Get(id string) (spot.ParkingSpot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, sp := range s.spots {
		if sp.ID == id {
			return sp, true
		}
	}
	return spot.ParkingSpot{}, false
}

// All returns a copy of every spot in display order
func (s *SpotStore) All() []spot.ParkingSpot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	spots := make([]spot.ParkingSpot, len(s.spots))
	copy(spots, s.spots)
	return spots
}

// Len returns the number of spots
func (s *SpotStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.spots)
}
