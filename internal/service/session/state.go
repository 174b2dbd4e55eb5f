// internal/service/session/state.go

package session

import (
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/booking"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/geo"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
)

// SpotCard is a spot as shown in the list, with the AI reason when it was recommended
type SpotCard struct {
	spot.ParkingSpot
	RecommendationReason string `json:"recommendationReason,omitempty"`
}

// MapMarker is a price pin on the simulated map
type MapMarker struct {
	SpotID      string  `json:"spotId"`
	Price       float64 `json:"price"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	DistanceKm  float64 `json:"distanceKm"`
	Recommended bool    `json:"recommended"`
}

// State is a point-in-time copy of everything the UI renders
type State struct {
	SessionID         string                  `json:"sessionId"`
	View              View                    `json:"view"`
	ShowMap           bool                    `json:"showMap"`
	Filters           spot.Filters            `json:"filters"`
	SearchQuery       string                  `json:"searchQuery"`
	IsSearching       bool                    `json:"isSearching"`
	IsGenerating      bool                    `json:"isGenerating"`
	IsSuggestingPrice bool                    `json:"isSuggestingPrice"`
	Recommendations   []assist.Recommendation `json:"recommendations"`
	Spots             []SpotCard              `json:"spots"`
	Markers           []MapMarker             `json:"markers"`
	Bookings          []booking.View          `json:"bookings"`
	SelectedSpot      *spot.ParkingSpot       `json:"selectedSpot,omitempty"`
	SelectedTotal     float64                 `json:"selectedTotal,omitempty"`
	BookingHours      float64                 `json:"bookingHours"`
	Draft             spot.ListingDraft       `json:"draft"`
}

// VisibleSpots returns the filtered spot list with recommendation reasons
func (s *Session) VisibleSpots() []SpotCard {
	s.mu.Lock()
	filters := s.filters
	reasons := reasonIndex(s.recommendations)
	s.mu.Unlock()

	return buildCards(marketplace.FilterSpots(s.spots.All(), filters), reasons)
}

// MapMarkers returns a pin for every visible spot
func (s *Session) MapMarkers() []MapMarker {
	s.mu.Lock()
	filters := s.filters
	reasons := reasonIndex(s.recommendations)
	s.mu.Unlock()

	return buildMarkers(marketplace.FilterSpots(s.spots.All(), filters), reasons)
}

// BookingViews returns the bookings, most recent first, joined with their spots
func (s *Session) BookingViews() []booking.View {
	bookings := s.bookings.All()

	views := make([]booking.View, 0, len(bookings))
	for _, b := range bookings {
		v := booking.View{Booking: b}
		if sp, ok := s.spots.Get(b.SpotID); ok {
			v.SpotTitle = sp.Title
			v.SpotAddress = sp.Address
			v.SpotImageURL = sp.ImageURL
		}
		views = append(views, v)
	}
	return views
}

// Recommendations returns the current recommendations
func (s *Session) Recommendations() []assist.Recommendation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]assist.Recommendation{}, s.recommendations...)
}

// Snapshot copies the whole session state
func (s *Session) Snapshot() State {
	s.mu.Lock()
	state := State{
		SessionID:         s.ID,
		View:              s.view,
		ShowMap:           s.showMap,
		Filters:           s.filters,
		SearchQuery:       s.searchQuery,
		IsSearching:       s.flights[callSearch] != nil,
		IsGenerating:      s.flights[callDescription] != nil,
		IsSuggestingPrice: s.flights[callPrice] != nil,
		Recommendations:   append([]assist.Recommendation{}, s.recommendations...),
		BookingHours:      s.market.BookingDuration().Hours(),
		Draft:             copyDraft(s.draft),
	}
	selectedID := s.selectedSpotID
	reasons := reasonIndex(s.recommendations)
	s.mu.Unlock()

	visible := marketplace.FilterSpots(s.spots.All(), state.Filters)
	state.Spots = buildCards(visible, reasons)
	state.Markers = buildMarkers(visible, reasons)
	state.Bookings = s.BookingViews()

	if selectedID != "" {
		if sp, ok := s.spots.Get(selectedID); ok {
			state.SelectedSpot = &sp
			state.SelectedTotal = s.market.Quote(sp)
		}
	}

	return state
}

// reasonIndex maps spot IDs to their first recommendation reason.
// Recommendations for unknown spots simply never match.
func reasonIndex(recs []assist.Recommendation) map[string]string {
	index := make(map[string]string, len(recs))
	for _, r := range recs {
		if _, exists := index[r.SpotID]; !exists {
			index[r.SpotID] = r.Reason
		}
	}
	return index
}

func buildCards(spots []spot.ParkingSpot, reasons map[string]string) []SpotCard {
	cards := make([]SpotCard, 0, len(spots))
	for _, sp := range spots {
		cards = append(cards, SpotCard{
			ParkingSpot:          sp,
			RecommendationReason: reasons[sp.ID],
		})
	}
	return cards
}

func buildMarkers(spots []spot.ParkingSpot, reasons map[string]string) []MapMarker {
	markers := make([]MapMarker, 0, len(spots))
	for _, sp := range spots {
		x, y := geo.Project(sp.Location)
		_, recommended := reasons[sp.ID]
		markers = append(markers, MapMarker{
			SpotID:      sp.ID,
			Price:       sp.PricePerHour,
			X:           x,
			Y:           y,
			DistanceKm:  geo.CalculateDistance(geo.ReferencePoint, sp.Location),
			Recommended: recommended,
		})
	}
	return markers
}
