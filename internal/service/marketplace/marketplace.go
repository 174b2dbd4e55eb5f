// internal/service/marketplace/marketplace.go

package marketplace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/booking"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/geo"
)

// Validation errors surfaced to the user
var (
	ErrMissingTitleOrAddress = errors.New("title and address are required")
	ErrInvalidPrice          = errors.New("hourly rate must be above zero")
	ErrAddressRequired       = errors.New("address is required")
)

const (
	// DefaultBookingDuration is the fixed reservation window of the demo
	DefaultBookingDuration = 2 * time.Hour

	// DemoUserID is the single guest and host of the demo
	DemoUserID = "user-1"

	// NewListingRating is the rating a freshly published spot starts with
	NewListingRating = 5.0
)

// Config contains configuration for the marketplace service
type Config struct {
	BookingDuration time.Duration
	UserID          string
}

// Service creates bookings and listings
type Service struct {
	ids     IDGenerator
	locator *geo.Locator
	now     func() time.Time
	config  Config
}

// NewService creates a new marketplace service
func NewService(ids IDGenerator, locator *geo.Locator, config Config) *Service {
	if config.BookingDuration <= 0 {
		config.BookingDuration = DefaultBookingDuration
	}
	if config.UserID == "" {
		config.UserID = DemoUserID
	}

	return &Service{
		ids:     ids,
		locator: locator,
		now:     time.Now,
		config:  config,
	}
}

// WithClock replaces the time source, for tests
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// BookingDuration returns the fixed reservation window
func (s *Service) BookingDuration() time.Duration {
	return s.config.BookingDuration
}

// Quote returns the total price of booking the spot for the fixed duration
func (s *Service) Quote(sp spot.ParkingSpot) float64 {
	return sp.PricePerHour * s.config.BookingDuration.Hours()
}

// Book builds an upcoming booking starting now
func (s *Service) Book(sp spot.ParkingSpot) booking.Booking {
	start := s.now()

	return booking.Booking{
		ID:         s.ids.NewID(),
		SpotID:     sp.ID,
		UserID:     s.config.UserID,
		StartTime:  start,
		EndTime:    start.Add(s.config.BookingDuration),
		TotalPrice: s.Quote(sp),
		Status:     booking.StatusUpcoming,
	}
}

// ValidateDraft checks the fields a listing cannot be published without
func ValidateDraft(draft spot.ListingDraft) error {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Address) == "" {
		return ErrMissingTitleOrAddress
	}
	if draft.PricePerHour <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Publish turns a draft into a new spot hosted by the demo user
func (s *Service) Publish(draft spot.ListingDraft) (spot.ParkingSpot, error) {
	if err := ValidateDraft(draft); err != nil {
		return spot.ParkingSpot{}, err
	}

	spotType := draft.Type
	if spotType == "" {
		spotType = spot.TypeDriveway
	}

	features := make([]string, 0, len(draft.Features))
	for _, f := range draft.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}

	id := s.ids.NewID()
	return spot.ParkingSpot{
		ID:           id,
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		Address:      strings.TrimSpace(draft.Address),
		PricePerHour: draft.PricePerHour,
		Type:         spotType,
		Features:     features,
		ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/600", id),
		Rating:       NewListingRating,
		ReviewsCount: 0,
		HostID:       s.config.UserID,
		Location:     s.locator.Place(),
	}, nil
}

// FilterSpots returns the spots matching the filters in their original order
func FilterSpots(spots []spot.ParkingSpot, filters spot.Filters) []spot.ParkingSpot {
	result := make([]spot.ParkingSpot, 0, len(spots))
	for _, sp := range spots {
		if filters.Matches(sp) {
			result = append(result, sp)
		}
	}
	return result
}
