package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zombar/realitycheck/internal/models"
)

func TestAnalyzeReviews(t *testing.T) {
	tests := []struct {
		name         string
		reviews      *models.ReviewSummary
		authenticity int
		credibility  string
	}{
		{
			name:         "missing",
			reviews:      nil,
			authenticity: 50,
			credibility:  CredibilityLow,
		},
		{
			name: "natural spread",
			reviews: &models.ReviewSummary{
				TotalReviews:       156,
				SentimentBreakdown: models.SentimentBreakdown{Positive: 89, Negative: 23, Neutral: 44},
			},
			authenticity: 85,
			credibility:  CredibilityHigh,
		},
		{
			name: "one-sided positive",
			reviews: &models.ReviewSummary{
				TotalReviews:       87,
				SentimentBreakdown: models.SentimentBreakdown{Positive: 84, Negative: 2, Neutral: 1},
			},
			authenticity: 30,
			credibility:  CredibilityLow,
		},
		{
			name: "one-sided negative",
			reviews: &models.ReviewSummary{
				TotalReviews:       10,
				SentimentBreakdown: models.SentimentBreakdown{Positive: 1, Negative: 9},
			},
			authenticity: 30,
			credibility:  CredibilityLow,
		},
		{
			name: "in between",
			reviews: &models.ReviewSummary{
				TotalReviews:       8,
				SentimentBreakdown: models.SentimentBreakdown{Positive: 7, Negative: 0, Neutral: 1},
			},
			authenticity: 60,
			credibility:  CredibilityMedium,
		},
		{
			name:         "empty breakdown",
			reviews:      &models.ReviewSummary{},
			authenticity: 60,
			credibility:  CredibilityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := analyzeReviews(tt.reviews)
			assert.Equal(t, tt.authenticity, result.ReviewAuthenticityScore)
			assert.Equal(t, tt.credibility, result.ReviewCredibility)
			assert.NotNil(t, result.CommonConcerns)
		})
	}
}

func TestAnalyzeReviewsRatios(t *testing.T) {
	result := analyzeReviews(&models.ReviewSummary{
		TotalReviews:       200,
		SentimentBreakdown: models.SentimentBreakdown{Positive: 50, Negative: 25, Neutral: 25},
		CommonNegatives:    []string{"pilling", "strong scent"},
	})

	assert.Equal(t, 200, result.ReviewCount)
	assert.InDelta(t, 0.5, result.PositiveRatio, 1e-9)
	assert.InDelta(t, 0.25, result.NegativeRatio, 1e-9)
	assert.Equal(t, []string{"pilling", "strong scent"}, result.CommonConcerns)
}
