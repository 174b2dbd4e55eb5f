// internal/domain/assist/assistant.go

package assist

import (
	"context"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
)

// Recommendation pairs a spot with the model's reason for suggesting it
type Recommendation struct {
	SpotID        string `json:"spotId"`
	Reason        string `json:"reason"`
	GroundingLink string `json:"groundingLink,omitempty"`
}

// Candidate is the compact projection of a spot sent to the model
type Candidate struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Price   float64   `json:"price"`
	Address string    `json:"address"`
	Type    spot.Type `json:"type"`
}

// CandidateFrom projects a spot for the model prompt
func CandidateFrom(s spot.ParkingSpot) Candidate {
	return Candidate{
		ID:      s.ID,
		Title:   s.Title,
		Price:   s.PricePerHour,
		Address: s.Address,
		Type:    s.Type,
	}
}

// Assistant defines the AI-assisted operations.
// None of them fail: every error degrades to an empty result or a fallback value.
type Assistant interface {
	// RecommendSpots returns the spots the model considers a match for the query
	RecommendSpots(ctx context.Context, query string, candidates []Candidate) []Recommendation

	// GenerateDescription writes a listing description for the draft
	GenerateDescription(ctx context.Context, draft spot.ListingDraft) string

	// SuggestPrice proposes an hourly rate for a spot type at an address
	SuggestPrice(ctx context.Context, address string, spotType spot.Type) float64
}

// TextGenerator sends a prompt to a hosted text-generation model
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
