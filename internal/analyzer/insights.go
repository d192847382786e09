package analyzer

import (
	"fmt"
	"strings"

	"github.com/zombar/realitycheck/internal/knowledgebase"
	"github.com/zombar/realitycheck/internal/models"
)

type insightKind int

const (
	redFlag insightKind = iota
	greenFlag
	recommendation
)

// insightInput is everything a rule may look at
type insightInput struct {
	Product     models.ProductAnalysis
	Social      models.SocialAnalysis
	Ingredients models.IngredientAnalysis
	Reviews     models.ReviewAnalysis
	Price       models.PriceAnalysis
	Score       int
	Verdict     string
}

// insightRule produces at most one message. Rules never look at each other's output.
type insightRule struct {
	name  string
	kind  insightKind
	apply func(in insightInput) (string, bool)
}

// insightRules run in declaration order
var insightRules = []insightRule{
	// Red flags
	{"paid_promotion", redFlag, func(in insightInput) (string, bool) {
		return "Paid promotion detected in the social post", in.Social.PromotionalDetected
	}},
	{"affiliate_codes", redFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Affiliate codes found (%d): the creator earns from sales", in.Social.AffiliateCodesFound),
			in.Social.AffiliateCodesFound > 0
	}},
	{"high_sponsored_probability", redFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("High probability of sponsored content (%d%%)", in.Social.SponsoredContentProbability),
			in.Social.SponsoredContentProbability > 70
	}},
	{"promotional_hashtags", redFlag, func(in insightInput) (string, bool) {
		return "Hashtags are dominated by promotional tags", in.Social.HasSocialData && in.Social.HashtagAuthenticity <= 30
	}},
	{"harmful_ingredients", redFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Contains potentially harmful ingredients: %s", strings.Join(in.Ingredients.HarmfulIngredients, ", ")),
			len(in.Ingredients.HarmfulIngredients) > 0
	}},
	{"high_severity_ingredients", redFlag, func(in insightInput) (string, bool) {
		var names []string
		for _, f := range in.Ingredients.FlaggedIngredients {
			if f.Severity == knowledgebase.SeverityHigh {
				names = append(names, fmt.Sprintf("%s (%s)", f.Name, f.Issue))
			}
		}
		return "High-severity ingredient concerns: " + strings.Join(names, ", "), len(names) > 0
	}},
	{"one_sided_reviews", redFlag, func(in insightInput) (string, bool) {
		return "Review sentiment is suspiciously one-sided", in.Reviews.ReviewCount > 0 && in.Reviews.ReviewAuthenticityScore <= 30
	}},
	{"no_reviews", redFlag, func(in insightInput) (string, bool) {
		return "No independent reviews available", in.Reviews.ReviewCount == 0
	}},
	{"poor_value", redFlag, func(in insightInput) (string, bool) {
		return "Poor value for money relative to ingredient quality", in.Price.ValueAssessment == ValuePoor
	}},
	{"unknown_brand", redFlag, func(in insightInput) (string, bool) {
		return "Brand is not widely recognized", in.Product.BrandRecognition == BrandUnknown
	}},

	// Green flags
	{"no_promotion_signals", greenFlag, func(in insightInput) (string, bool) {
		return "No paid promotion signals in the social post",
			in.Social.HasSocialData && in.Social.SponsoredContentProbability == 0
	}},
	{"quality_formulation", greenFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("High-quality ingredient formulation (score %d)", in.Ingredients.IngredientQualityScore),
			in.Ingredients.IngredientQualityScore >= 70
	}},
	{"beneficial_ingredients", greenFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Contains beneficial ingredients: %s", strings.Join(in.Ingredients.BeneficialIngredients, ", ")),
			len(in.Ingredients.BeneficialIngredients) > 0
	}},
	{"natural_reviews", greenFlag, func(in insightInput) (string, bool) {
		return "Review sentiment distribution looks natural", in.Reviews.ReviewCount > 0 && in.Reviews.ReviewAuthenticityScore >= 85
	}},
	{"credible_reviews", greenFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Large, credible review base (%d reviews)", in.Reviews.ReviewCount),
			in.Reviews.ReviewCredibility == CredibilityHigh
	}},
	{"credible_influencer", greenFlag, func(in insightInput) (string, bool) {
		return "Creator engagement looks organic", in.Social.InfluencerCredibility == CredibilityHigh
	}},
	{"good_value", greenFlag, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Good value for money (%s)", in.Price.ValueAssessment),
			in.Price.ValueAssessment == ValueExcellent || in.Price.ValueAssessment == ValueGood
	}},
	{"known_brand", greenFlag, func(in insightInput) (string, bool) {
		return "Well-known, widely available brand", in.Product.BrandRecognition == BrandWellKnown
	}},

	// Recommendations
	{"treat_as_advertising", recommendation, func(in insightInput) (string, bool) {
		return "Treat this recommendation as advertising and look for independent reviews",
			in.Verdict == models.VerdictLikelySponsored
	}},
	{"seek_more_evidence", recommendation, func(in insightInput) (string, bool) {
		return "Cross-check this product with independent reviewers before buying",
			in.Verdict == models.VerdictSuspicious
	}},
	{"genuine_recommendation", recommendation, func(in insightInput) (string, bool) {
		return "This looks like a genuine recommendation", in.Verdict == models.VerdictAuthentic
	}},
	{"flagged_ingredient_advice", recommendation, func(in insightInput) (string, bool) {
		advice := make([]string, 0, len(in.Ingredients.FlaggedIngredients))
		for _, f := range in.Ingredients.FlaggedIngredients {
			advice = append(advice, f.Recommendation)
		}
		return strings.Join(advice, "; "), len(advice) > 0
	}},
	{"patch_test", recommendation, func(in insightInput) (string, bool) {
		return "Patch test before full use", len(in.Ingredients.HarmfulIngredients) > 0 || len(in.Ingredients.FlaggedIngredients) > 0
	}},
	{"missing_ingredients", recommendation, func(in insightInput) (string, bool) {
		return "Ingredient list unavailable: verify the full INCI list before purchase", in.Ingredients.TotalIngredients == 0
	}},
	{"common_complaints", recommendation, func(in insightInput) (string, bool) {
		return fmt.Sprintf("Check common complaints before buying: %s", strings.Join(in.Reviews.CommonConcerns, ", ")),
			len(in.Reviews.CommonConcerns) > 0
	}},
	{"unknown_price", recommendation, func(in insightInput) (string, bool) {
		return "Price could not be determined: compare prices across retailers", in.Price.ValueAssessment == ValueUnknown
	}},
	{"cheaper_alternatives", recommendation, func(in insightInput) (string, bool) {
		return "Consider alternatives with similar ingredients at a lower price", in.Price.ValueAssessment == ValuePoor
	}},
}

// generateInsights evaluates every rule in order and buckets the messages
func generateInsights(in insightInput) (red, green, recs []string) {
	red, green, recs = []string{}, []string{}, []string{}
	for _, rule := range insightRules {
		msg, ok := rule.apply(in)
		if !ok {
			continue
		}
		switch rule.kind {
		case redFlag:
			red = append(red, msg)
		case greenFlag:
			green = append(green, msg)
		case recommendation:
			recs = append(recs, msg)
		}
	}
	return red, green, recs
}
