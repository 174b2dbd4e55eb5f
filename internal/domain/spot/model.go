// internal/domain/spot/model.go

package spot

import "errors"

// Type identifies the kind of parking space
type Type string

const (
	TypeDriveway    Type = "Driveway"
	TypeGarage      Type = "Garage"
	TypeUnderground Type = "Underground"
	TypeStreet      Type = "Street"
	TypeLot         Type = "Lot"

	// TypeAll is the wildcard filter value, never the type of a spot
	TypeAll Type = "All"
)

// Types lists every concrete spot type
var Types = []Type{TypeDriveway, TypeGarage, TypeUnderground, TypeStreet, TypeLot}

// FilterTypes lists the filter bar entries in display order
var FilterTypes = []Type{TypeAll, TypeGarage, TypeDriveway, TypeUnderground, TypeLot}

// ErrUnknownType is returned when a type string is not a known spot type
var ErrUnknownType = errors.New("unknown parking type")

// ParseType parses a spot type. The wildcard is accepted only when allowAll is set.
func ParseType(s string, allowAll bool) (Type, error) {
	t := Type(s)
	if allowAll && t == TypeAll {
		return t, nil
	}
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", ErrUnknownType
}

// Location represents a geographic point
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ParkingSpot represents a listed parking space available for hourly rental
type ParkingSpot struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Address      string   `json:"address"`
	PricePerHour float64  `json:"pricePerHour"`
	Type         Type     `json:"type"`
	Features     []string `json:"features"`
	ImageURL     string   `json:"imageUrl"`
	Rating       float64  `json:"rating"`
	ReviewsCount int      `json:"reviewsCount"`
	HostID       string   `json:"hostId"`
	Location     Location `json:"location"`
}

// Filters defines criteria for narrowing the spot list.
// A zero MaxPrice means no price limit.
type Filters struct {
	Type     Type    `json:"type"`
	MaxPrice float64 `json:"maxPrice"`
}

// Matches reports whether the spot passes the filters
func (f Filters) Matches(s ParkingSpot) bool {
	if f.Type != "" && f.Type != TypeAll && s.Type != f.Type {
		return false
	}
	if f.MaxPrice > 0 && s.PricePerHour > f.MaxPrice {
		return false
	}
	return true
}

// ListingDraft holds the host form while a listing is being written
type ListingDraft struct {
	Title        string   `json:"title"`
	Address      string   `json:"address"`
	Type         Type     `json:"type"`
	PricePerHour float64  `json:"pricePerHour"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
}

// DefaultDraftPrice is the hourly rate a fresh draft starts with
const DefaultDraftPrice = 10

// NewDraft returns an empty draft with the form defaults
func NewDraft() ListingDraft {
	return ListingDraft{
		Type:         TypeDriveway,
		PricePerHour: DefaultDraftPrice,
		Features:     []string{},
	}
}
