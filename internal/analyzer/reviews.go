package analyzer

import (
	"github.com/zombar/realitycheck/internal/models"
)

// analyzeReviews judges a sentiment distribution. Ratios come from the
// breakdown sum; the credibility thresholds use TotalReviews as reported.
// Missing reviews give low credibility rather than unknown.
func analyzeReviews(reviews *models.ReviewSummary) models.ReviewAnalysis {
	result := models.ReviewAnalysis{
		ReviewAuthenticityScore: 50,
		CommonConcerns:          []string{},
		ReviewCredibility:       CredibilityLow,
	}
	if reviews == nil {
		return result
	}

	breakdown := reviews.SentimentBreakdown
	result.ReviewCount = reviews.TotalReviews
	result.SentimentBreakdown = breakdown
	if len(reviews.CommonNegatives) > 0 {
		result.CommonConcerns = append(result.CommonConcerns, reviews.CommonNegatives...)
	}

	total := breakdown.Positive + breakdown.Negative + breakdown.Neutral
	if total > 0 {
		result.PositiveRatio = float64(breakdown.Positive) / float64(total)
		result.NegativeRatio = float64(breakdown.Negative) / float64(total)
	}

	result.ReviewAuthenticityScore = reviewAuthenticity(result.PositiveRatio, result.NegativeRatio)
	result.ReviewCredibility = reviewCredibility(reviews.TotalReviews, result.ReviewAuthenticityScore)

	return result
}

// reviewAuthenticity flags one-sided distributions (30), rewards a natural
// spread (85) and is neutral otherwise (60).
func reviewAuthenticity(positiveRatio, negativeRatio float64) int {
	switch {
	case positiveRatio > 0.9 || negativeRatio > 0.8:
		return 30
	case positiveRatio >= 0.4 && positiveRatio <= 0.8 && negativeRatio >= 0.1 && negativeRatio <= 0.4:
		return 85
	default:
		return 60
	}
}

func reviewCredibility(totalReviews, authenticity int) string {
	switch {
	case totalReviews >= 20 && authenticity >= 70:
		return CredibilityHigh
	case totalReviews >= 5 && authenticity >= 50:
		return CredibilityMedium
	default:
		return CredibilityLow
	}
}
