// internal/service/assist/extract.go

package assist

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
)

// flexibleID accepts a spot id written either as a JSON string or a number
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type recommendationPayload struct {
	SpotID        flexibleID `json:"spotId"`
	Reason        string     `json:"reason"`
	GroundingLink string     `json:"groundingLink"`
}

// extractRecommendations finds the first JSON array in text that decodes as a
// list of recommendations. Surrounding prose and markdown fences are ignored.
// Entries without a spot id or reason are dropped. ok is false when no array
// could be decoded.
func extractRecommendations(text string) (recs []assist.Recommendation, ok bool) {
	for i := strings.IndexByte(text, '['); i >= 0; {
		if payload, found := decodeArrayAt(text[i:]); found {
			return sanitize(payload), true
		}

		next := strings.IndexByte(text[i+1:], '[')
		if next < 0 {
			break
		}
		i += next + 1
	}

	// Greedy first-to-last bracket span, for arrays broken by stray text inside
	start, end := strings.IndexByte(text, '['), strings.LastIndexByte(text, ']')
	if start >= 0 && end > start {
		var payload []recommendationPayload
		if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err == nil {
			return sanitize(payload), true
		}
	}

	return nil, false
}

// decodeArrayAt decodes the single JSON value at the start of s, ignoring
// anything after it
func decodeArrayAt(s string) ([]recommendationPayload, bool) {
	var raw json.RawMessage
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&raw); err != nil {
		return nil, false
	}

	var payload []recommendationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func sanitize(payload []recommendationPayload) []assist.Recommendation {
	recs := make([]assist.Recommendation, 0, len(payload))
	for _, p := range payload {
		id := strings.TrimSpace(string(p.SpotID))
		reason := strings.TrimSpace(p.Reason)
		if id == "" || reason == "" {
			continue
		}
		recs = append(recs, assist.Recommendation{
			SpotID:        id,
			Reason:        reason,
			GroundingLink: strings.TrimSpace(p.GroundingLink),
		})
	}
	return recs
}

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.]`)
	leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// parsePrice strips everything but digits and decimal points and parses the
// longest numeric prefix of what remains. ok is false when nothing positive
// could be parsed.
func parsePrice(text string) (price float64, ok bool) {
	digits := nonNumeric.ReplaceAllString(text, "")
	match := leadingNumber.FindString(digits)
	if match == "" {
		return 0, false
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
