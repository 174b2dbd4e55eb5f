// internal/service/assist/extract_test.go

package assist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/assist"
)

func TestExtractRecommendations(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   []assist.Recommendation
		wantOK bool
	}{
		{
			name:   "raw array",
			text:   `[{"spotId": "1", "reason": "Close to work"}]`,
			want:   []assist.Recommendation{{SpotID: "1", Reason: "Close to work"}},
			wantOK: true,
		},
		{
			name: "fenced array with prose",
			text: "Sure! Here you go:\n```json\n[{\"spotId\": \"3\", \"reason\": \"Quiet garage\"}, {\"spotId\": \"4\", \"reason\": \"Cheap\"}]\n```\nEnjoy.",
			want: []assist.Recommendation{
				{SpotID: "3", Reason: "Quiet garage"},
				{SpotID: "4", Reason: "Cheap"},
			},
			wantOK: true,
		},
		{
			name:   "numeric ids",
			text:   `[{"spotId": 2, "reason": "Near the stadium"}]`,
			want:   []assist.Recommendation{{SpotID: "2", Reason: "Near the stadium"}},
			wantOK: true,
		},
		{
			name:   "bracketed prose before the array",
			text:   `Note [1]: results below. [{"spotId": "1", "reason": "Secure"}]`,
			want:   []assist.Recommendation{{SpotID: "1", Reason: "Secure"}},
			wantOK: true,
		},
		{
			name:   "entries missing fields are dropped",
			text:   `[{"spotId": "", "reason": "x"}, {"spotId": "2"}, {"spotId": "4", "reason": " Affordable "}]`,
			want:   []assist.Recommendation{{SpotID: "4", Reason: "Affordable"}},
			wantOK: true,
		},
		{
			name:   "empty array",
			text:   `[]`,
			want:   []assist.Recommendation{},
			wantOK: true,
		},
		{
			name:   "plain prose",
			text:   "I could not find anything suitable.",
			wantOK: false,
		},
		{
			name:   "truncated json",
			text:   `[{"spotId": "1", "reason": "Clo`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := extractRecommendations(tt.text)
			require.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"$12.50 per hour", 12.5, true},
		{"15", 15, true},
		{"About $9/hr.", 9, true},
		{"$.75", 0.75, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"$0", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := parsePrice(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
