// internal/service/assist/assistant.go

package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
)

const (
	// DefaultPrice is returned by SuggestPrice when no usable number comes back
	DefaultPrice = 12.0

	// EmptyDescription is used when the model answers with no text
	EmptyDescription = "A great parking spot in a convenient location."

	// FallbackDescription is used when the model call fails
	FallbackDescription = "A secure and convenient parking space."
)

// ServiceConfig contains configuration for the assistant service
type ServiceConfig struct {
	RequestTimeout time.Duration
}

// Service implements the assist.Assistant interface on top of a text generator
type Service struct {
	generator assist.TextGenerator
	config    ServiceConfig
}

// NewService creates a new assistant service
func NewService(generator assist.TextGenerator, config ServiceConfig) *Service {
	return &Service{
		generator: generator,
		config:    config,
	}
}

// RecommendSpots asks the model which candidates fit the query.
// It returns an empty list on any failure.
func (s *Service) RecommendSpots(ctx context.Context, query string, candidates []assist.Candidate) []assist.Recommendation {
	candidatesJSON, err := json.Marshal(candidates)
	if err != nil {
		log.Printf("AI recommendation failed: encoding candidates: %v", err)
		return []assist.Recommendation{}
	}

	prompt := fmt.Sprintf(`You are a parking assistant. A user is looking for: %q.
Available spots: %s.

Return a JSON array of objects with "spotId" and "reason".
"reason" should be a short, encouraging sentence explaining the match.
Example: [{"spotId": "1", "reason": "Perfect location for your commute!"}]
Return ONLY the raw JSON array.`, query, candidatesJSON)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("AI recommendation failed: %v", err)
		return []assist.Recommendation{}
	}

	recs, ok := extractRecommendations(text)
	if !ok {
		log.Printf("AI recommendation failed: no JSON array in response (%d bytes)", len(text))
		return []assist.Recommendation{}
	}
	return recs
}

// GenerateDescription asks the model for a short listing description
func (s *Service) GenerateDescription(ctx context.Context, draft spot.ListingDraft) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a high-converting 2-sentence description for a %s at %s. Focus on safety and convenience.",
		draft.Type, draft.Address)
	if len(draft.Features) > 0 {
		fmt.Fprintf(&sb, " Mention these features: %s.", strings.Join(draft.Features, ", "))
	}

	text, err := s.generate(ctx, sb.String())
	if err != nil {
		log.Printf("AI description failed: %v", err)
		return FallbackDescription
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyDescription
	}
	return text
}

// SuggestPrice asks the model for a competitive hourly rate
func (s *Service) SuggestPrice(ctx context.Context, address string, spotType spot.Type) float64 {
	prompt := fmt.Sprintf("Suggest a competitive hourly parking price for a %s in %s. Return ONLY the number.",
		spotType, address)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("AI price suggestion failed: %v", err)
		return DefaultPrice
	}

	price, ok := parsePrice(text)
	if !ok {
		log.Printf("AI price suggestion unusable: %q", text)
		return DefaultPrice
	}
	return price
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RequestTimeout)
		defer cancel()
	}
	return s.generator.Generate(ctx, prompt)
}
