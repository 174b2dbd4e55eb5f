// internal/adapter/storage/booking_store.go

package storage

import (
	"sync"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/booking"
)

// BookingStore holds a session's bookings in memory, most recent first
type BookingStore struct {
	bookings []booking.Booking
	mutex    sync.RWMutex
}

// NewBookingStore creates an empty booking store
func NewBookingStore() *BookingStore {
	return &BookingStore{bookings: []booking.Booking{}}
}

// Prepend adds a booking at the front of the collection
func (s *BookingStore) Prepend(b booking.Booking) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.bookings = append([]booking.Booking{b}, s.bookings...)
}

// All returns a copy of every booking, most recent first
func (s *BookingStore) All() []booking.Booking {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	bookings := make([]booking.Booking, len(s.bookings))
	copy(bookings, s.bookings)
	return bookings
}
