// internal/service/session/session.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/events"
	"github.com/BrownBean2017/SpotShare-MVP/internal/adapter/storage"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/booking"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
)

// View is the tab the session is looking at
type View string

const (
	ViewGuest    View = "guest"
	ViewHost     View = "host"
	ViewBookings View = "bookings"
)

var (
	ErrUnknownView  = errors.New("unknown view")
	ErrSpotNotFound = errors.New("spot not found")
	ErrSuperseded   = errors.New("superseded by a newer request")
)

// ParseView validates a view name
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewGuest, ViewHost, ViewBookings:
		return v, nil
	}
	return "", ErrUnknownView
}

// callKind identifies an AI call site; each kind has at most one current call
type callKind int

const (
	callSearch callKind = iota
	callDescription
	callPrice
)

type flight struct {
	generation uint64
	cancel     context.CancelFunc
}

// DraftPatch carries the host form fields to change. Nil fields are left alone.
type DraftPatch struct {
	Title        *string   `json:"title"`
	Address      *string   `json:"address"`
	Type         *string   `json:"type"`
	PricePerHour *float64  `json:"pricePerHour"`
	Description  *string   `json:"description"`
	Features     *[]string `json:"features"`
}

// Session owns the application state of one browser session.
// All mutation goes through its methods; AI calls run without holding the lock.
type Session struct {
	ID string

	market    *marketplace.Service
	assistant assist.Assistant
	emitter   *events.Emitter
	spots     *storage.SpotStore
	bookings  *storage.BookingStore

	mu              sync.Mutex
	view            View
	showMap         bool
	filters         spot.Filters
	searchQuery     string
	recommendations []assist.Recommendation
	selectedSpotID  string
	draft           spot.ListingDraft
	notice          string
	flights         map[callKind]*flight
	generations     map[callKind]uint64
	lastActive      time.Time
}

func newSession(id string, deps Dependencies) *Session {
	return &Session{
		ID:              id,
		market:          deps.Market,
		assistant:       deps.Assistant,
		emitter:         deps.Emitter,
		spots:           storage.NewSpotStore(storage.SeedSpots()),
		bookings:        storage.NewBookingStore(),
		view:            ViewGuest,
		filters:         spot.Filters{Type: spot.TypeAll},
		recommendations: []assist.Recommendation{},
		draft:           spot.NewDraft(),
		flights:         make(map[callKind]*flight),
		generations:     make(map[callKind]uint64),
		lastActive:      time.Now(),
	}
}

// SetView switches the active tab
func (s *Session) SetView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.view = v
	return nil
}

// SetShowMap toggles the map panel on small screens
func (s *Session) SetShowMap(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.showMap = show
}

// ToggleMap flips the map panel and returns the new value
func (s *Session) ToggleMap() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.showMap = !s.showMap
	return s.showMap
}

// SetFilters replaces the active spot filters
func (s *Session) SetFilters(filters spot.Filters) error {
	if filters.Type == "" {
		filters.Type = spot.TypeAll
	}
	if _, err := spot.ParseType(string(filters.Type), true); err != nil {
		return err
	}
	if filters.MaxPrice < 0 || math.IsNaN(filters.MaxPrice) {
		filters.MaxPrice = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.filters = filters
	return nil
}

// Search asks the assistant for spots matching a natural-language query.
// A blank query clears the recommendations without calling the model.
// A search started later supersedes this one; its result is then discarded
// and ErrSuperseded returned.
func (s *Session) Search(ctx context.Context, query string) ([]assist.Recommendation, error) {
	s.mu.Lock()
	s.touch()
	s.searchQuery = query

	if strings.TrimSpace(query) == "" {
		s.abortCall(callSearch)
		s.recommendations = []assist.Recommendation{}
		s.mu.Unlock()

		s.emitter.Emit(s.ID, events.RecommendationsUpdated, []assist.Recommendation{})
		return []assist.Recommendation{}, nil
	}

	callCtx, gen := s.beginCall(ctx, callSearch)
	spots := s.spots.All()
	s.mu.Unlock()
	defer s.finishCall(callSearch, gen)

	candidates := make([]assist.Candidate, 0, len(spots))
	for _, sp := range spots {
		candidates = append(candidates, assist.CandidateFrom(sp))
	}

	recs := s.assistant.RecommendSpots(callCtx, query, candidates)

	s.mu.Lock()
	if !s.isCurrent(callSearch, gen) {
		s.mu.Unlock()
		log.Printf("Discarding stale search result for session %s", s.ID)
		return nil, ErrSuperseded
	}
	s.recommendations = recs
	s.mu.Unlock()

	s.emitter.Emit(s.ID, events.RecommendationsUpdated, recs)
	return recs, nil
}

// SelectSpot opens the booking modal for a spot
func (s *Session) SelectSpot(id string) (spot.ParkingSpot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	sp, ok := s.spots.Get(id)
	if !ok {
		return spot.ParkingSpot{}, ErrSpotNotFound
	}
	s.selectedSpotID = id
	return sp, nil
}

// ClearSelection closes the booking modal
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.selectedSpotID = ""
}

// ConfirmBooking reserves a spot for the fixed duration
func (s *Session) ConfirmBooking(spotID string) (booking.Booking, error) {
	s.mu.Lock()
	s.touch()

	sp, ok := s.spots.Get(spotID)
	if !ok {
		s.mu.Unlock()
		return booking.Booking{}, ErrSpotNotFound
	}

	b := s.market.Book(sp)
	s.bookings.Prepend(b)
	s.selectedSpotID = ""
	s.notice = fmt.Sprintf("Success! Your spot at %s is reserved.", sp.Title)
	s.mu.Unlock()

	s.emitter.Emit(s.ID, events.BookingCreated, b)
	return b, nil
}

// UpdateDraft applies changes to the host form
func (s *Session) UpdateDraft(patch DraftPatch) (spot.ListingDraft, error) {
	var spotType spot.Type
	if patch.Type != nil {
		t, err := spot.ParseType(*patch.Type, false)
		if err != nil {
			return spot.ListingDraft{}, err
		}
		spotType = t
	}
	if patch.PricePerHour != nil {
		p := *patch.PricePerHour
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return spot.ListingDraft{}, marketplace.ErrInvalidPrice
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if patch.Title != nil {
		s.draft.Title = *patch.Title
	}
	if patch.Address != nil {
		s.draft.Address = *patch.Address
	}
	if patch.Type != nil {
		s.draft.Type = spotType
	}
	if patch.PricePerHour != nil {
		s.draft.PricePerHour = *patch.PricePerHour
	}
	if patch.Description != nil {
		s.draft.Description = *patch.Description
	}
	if patch.Features != nil {
		s.draft.Features = append([]string{}, (*patch.Features)...)
	}

	return copyDraft(s.draft), nil
}

// SuggestPrice asks the assistant for an hourly rate and stores it on the draft
func (s *Session) SuggestPrice(ctx context.Context) (float64, error) {
	s.mu.Lock()
	s.touch()

	draft := copyDraft(s.draft)
	if strings.TrimSpace(draft.Address) == "" {
		s.mu.Unlock()
		return 0, marketplace.ErrAddressRequired
	}

	callCtx, gen := s.beginCall(ctx, callPrice)
	s.mu.Unlock()
	defer s.finishCall(callPrice, gen)

	price := s.assistant.SuggestPrice(callCtx, draft.Address, draft.Type)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(callPrice, gen) {
		return 0, ErrSuperseded
	}
	s.draft.PricePerHour = price
	return price, nil
}

// GenerateDescription asks the assistant to write the draft description
func (s *Session) GenerateDescription(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.touch()

	draft := copyDraft(s.draft)
	if strings.TrimSpace(draft.Address) == "" {
		s.mu.Unlock()
		return "", marketplace.ErrAddressRequired
	}

	callCtx, gen := s.beginCall(ctx, callDescription)
	s.mu.Unlock()
	defer s.finishCall(callDescription, gen)

	desc := s.assistant.GenerateDescription(callCtx, draft)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isCurrent(callDescription, gen) {
		return "", ErrSuperseded
	}
	s.draft.Description = desc
	return desc, nil
}

// PublishListing validates the draft and adds it as a new spot.
// On success the view returns to browsing and the form is reset.
func (s *Session) PublishListing() (spot.ParkingSpot, error) {
	s.mu.Lock()
	s.touch()

	sp, err := s.market.Publish(s.draft)
	if err != nil {
		s.mu.Unlock()
		return spot.ParkingSpot{}, err
	}

	// Pending helpers target the draft that is being discarded
	s.abortCall(callDescription)
	s.abortCall(callPrice)

	s.spots.Prepend(sp)
	s.view = ViewGuest
	s.draft = spot.NewDraft()
	s.mu.Unlock()

	s.emitter.Emit(s.ID, events.SpotCreated, sp)
	return sp, nil
}

// SetNotice stores a one-shot message for the next render
func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notice = msg
}

// TakeNotice returns the pending message and clears it
func (s *Session) TakeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := s.notice
	s.notice = ""
	return msg
}

// Spot returns a spot of this session by ID
func (s *Session) Spot(id string) (spot.ParkingSpot, bool) {
	return s.spots.Get(id)
}

// Draft returns a copy of the host form
func (s *Session) Draft() spot.ListingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyDraft(s.draft)
}

// Close cancels every in-flight AI call
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for kind := range s.flights {
		s.abortCall(kind)
	}
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastActive
}

// Touch records a read of the session so idle eviction spares it
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touch()
}

// touch records activity. Caller holds s.mu.
func (s *Session) touch() {
	s.lastActive = time.Now()
}

// beginCall supersedes any current call of the kind and starts a new one.
// Caller holds s.mu.
func (s *Session) beginCall(parent context.Context, kind callKind) (context.Context, uint64) {
	if f := s.flights[kind]; f != nil {
		f.cancel()
	}

	s.generations[kind]++
	gen := s.generations[kind]

	ctx, cancel := context.WithCancel(parent)
	s.flights[kind] = &flight{generation: gen, cancel: cancel}
	return ctx, gen
}

// isCurrent reports whether gen is still the live call of the kind.
// Caller holds s.mu.
func (s *Session) isCurrent(kind callKind, gen uint64) bool {
	f := s.flights[kind]
	return f != nil && f.generation == gen
}

// finishCall clears the in-flight marker if gen is still the live call
func (s *Session) finishCall(kind callKind, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isCurrent(kind, gen) {
		s.flights[kind].cancel()
		delete(s.flights, kind)
	}
}

// abortCall cancels the live call of the kind so its result is discarded.
// Caller holds s.mu.
func (s *Session) abortCall(kind callKind) {
	if f := s.flights[kind]; f != nil {
		f.cancel()
		delete(s.flights, kind)
	}
	s.generations[kind]++
}

func copyDraft(d spot.ListingDraft) spot.ListingDraft {
	d.Features = append([]string{}, d.Features...)
	return d
}
