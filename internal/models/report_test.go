package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendationFor_Thresholds(t *testing.T) {
	tests := []struct {
		name  string
		total int
		max   int
		want  Recommendation
	}{
		{"exactly 73 percent", 73, 100, RecommendHire},
		{"just under 73 percent", 72, 100, RecommendHold},
		{"exactly 50 percent", 50, 100, RecommendHold},
		{"just under 50 percent", 49, 100, RecommendNoHire},
		{"full marks", 15, 15, RecommendHire},
		{"zero score", 0, 15, RecommendNoHire},
		{"zero max", 10, 0, RecommendNoHire},
		{"single question hold", 9, 15, RecommendHold},
		{"single question hire", 11, 15, RecommendHire},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RecommendationFor(tt.total, tt.max))
		})
	}
}

func TestPerQuestionScoreTotal(t *testing.T) {
	s := PerQuestionScore{TechnicalAccuracy: 4, Depth: 3, Communication: 2, Ownership: 1}
	assert.Equal(t, 10, s.Total())
}

func TestNewCandidateID(t *testing.T) {
	id := NewCandidateID()
	assert.Len(t, id, 13)
	assert.Regexp(t, `^cand-[0-9a-f]{8}$`, id)
}
