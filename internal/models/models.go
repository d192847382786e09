package models

import "time"

// Verdict values
const (
	VerdictAuthentic       = "authentic"
	VerdictSuspicious      = "suspicious"
	VerdictLikelySponsored = "likely_sponsored"
)

// Confidence values
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Analysis is a stored reality check with the inputs it was computed from
type Analysis struct {
	ID        string         `json:"id"`
	Input     AnalysisInput  `json:"input"`
	Result    AnalysisResult `json:"result"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// AnalysisInput bundles the scraped records handed to the engine
type AnalysisInput struct {
	Product ProductRecord  `json:"product"`
	Social  *SocialRecord  `json:"social,omitempty"`
	Reviews *ReviewSummary `json:"reviews,omitempty"`
	Profile *UserProfile   `json:"profile,omitempty"`
}

// ProductRecord is a scraped product page
type ProductRecord struct {
	Name        string          `json:"name"`
	Platform    string          `json:"platform"` // amazon, oliveyoung, yesstyle, sephora, generic
	Price       string          `json:"price"`    // free text, e.g. "$14.99"
	Rating      *float64        `json:"rating,omitempty"`
	Ingredients IngredientsInfo `json:"ingredients"`
}

// IngredientsInfo holds the raw ingredient text and its parsed, lowercased names
type IngredientsInfo struct {
	RawText string   `json:"raw_text"`
	Parsed  []string `json:"parsed"`
}

// SocialRecord is a scraped short-form-video post
type SocialRecord struct {
	Platform              string      `json:"platform,omitempty"` // tiktok, instagram, youtube
	Username              string      `json:"username"`
	Caption               string      `json:"caption"`
	Hashtags              []string    `json:"hashtags"` // lowercased, no leading '#'
	AffiliateCodes        []string    `json:"affiliate_codes"`
	PaidPromotionDetected bool        `json:"paid_promotion_detected"`
	Engagement            *Engagement `json:"engagement,omitempty"`
}

// Engagement counters; each is nil when the collector could not read it
type Engagement struct {
	Likes    *int64 `json:"likes,omitempty"`
	Views    *int64 `json:"views,omitempty"`
	Comments *int64 `json:"comments,omitempty"`
	Shares   *int64 `json:"shares,omitempty"`
}

// ReviewSummary is a pre-tallied review distribution
type ReviewSummary struct {
	TotalReviews       int                `json:"total_reviews"`
	SentimentBreakdown SentimentBreakdown `json:"sentiment_breakdown"`
	CommonNegatives    []string           `json:"common_negatives"`
}

// SentimentBreakdown holds counts per sentiment category
type SentimentBreakdown struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// UserProfile personalizes ingredient recommendations
type UserProfile struct {
	SkinType string   `json:"skin_type,omitempty"` // oily, dry, combination, normal, sensitive
	Concerns []string `json:"concerns,omitempty"`  // acne, sensitivity, aging, ...
}

// AnalysisResult is the composite verdict returned by the engine
type AnalysisResult struct {
	ProductAnalysis    ProductAnalysis    `json:"product_analysis"`
	SocialAnalysis     SocialAnalysis     `json:"social_analysis"`
	IngredientAnalysis IngredientAnalysis `json:"ingredient_analysis"`
	ReviewAnalysis     ReviewAnalysis     `json:"review_analysis"`
	PriceAnalysis      PriceAnalysis      `json:"price_analysis"`

	ComponentScores ComponentScores `json:"component_scores"`
	RealityScore    int             `json:"reality_score"`    // 0-100
	ConfidenceLevel string          `json:"confidence_level"` // high, medium, low
	OverallVerdict  string          `json:"overall_verdict"`  // authentic, suspicious, likely_sponsored

	RedFlags        []string `json:"red_flags"`
	GreenFlags      []string `json:"green_flags"`
	Recommendations []string `json:"recommendations"`

	AnalysisTimestamp time.Time `json:"analysis_timestamp"`
	DataSources       []string  `json:"data_sources"`
}

// ComponentScores are the per-axis scores fed into the weighted reality score
type ComponentScores struct {
	Product    float64 `json:"product"`
	Social     float64 `json:"social"`
	Ingredient float64 `json:"ingredient"`
	Review     float64 `json:"review"`
	Price      float64 `json:"price"`
}

// ProductAnalysis scores product legitimacy
type ProductAnalysis struct {
	ProductName         string `json:"product_name"`
	Platform            string `json:"platform"`
	BrandRecognition    string `json:"brand_recognition"` // well_known, emerging, unknown
	MatchedBrand        string `json:"matched_brand,omitempty"`
	AvailabilityScore   int    `json:"availability_score"`
	PriceReasonableness int    `json:"price_reasonableness"`
}

// SocialAnalysis summarizes sponsorship signals in a social post
type SocialAnalysis struct {
	HasSocialData               bool     `json:"has_social_data"`
	PromotionalDetected         bool     `json:"promotional_detected"`
	AffiliateCodesFound         int      `json:"affiliate_codes_found"`
	HashtagAuthenticity         int      `json:"hashtag_authenticity"`
	InfluencerCredibility       string   `json:"influencer_credibility"` // high, medium, low, unknown
	EngagementRate              *float64 `json:"engagement_rate,omitempty"`
	SponsoredContentProbability int      `json:"sponsored_content_probability"`
	PromotionalKeywords         []string `json:"promotional_keywords"`
	DisclosureHashtags          []string `json:"disclosure_hashtags"`
}

// IngredientAnalysis classifies the ingredient list
type IngredientAnalysis struct {
	TotalIngredients       int                 `json:"total_ingredients"`
	BeneficialIngredients  []string            `json:"beneficial_ingredients"`
	HarmfulIngredients     []string            `json:"harmful_ingredients"`
	FlaggedIngredients     []FlaggedIngredient `json:"flagged_ingredients"`
	SafeIngredientCount    int                 `json:"safe_ingredient_count"`
	IngredientQualityScore int                 `json:"ingredient_quality_score"`
	IngredientAuthenticity int                 `json:"ingredient_authenticity"`
}

// FlaggedIngredient is an ingredient found in the reference table
type FlaggedIngredient struct {
	Name           string `json:"name"`
	Issue          string `json:"issue"`
	Severity       string `json:"severity"` // low, medium, high
	Recommendation string `json:"recommendation"`
}

// ReviewAnalysis judges the review distribution
type ReviewAnalysis struct {
	ReviewCount             int                `json:"review_count"`
	SentimentBreakdown      SentimentBreakdown `json:"sentiment_breakdown"`
	PositiveRatio           float64            `json:"positive_ratio"`
	NegativeRatio           float64            `json:"negative_ratio"`
	ReviewAuthenticityScore int                `json:"review_authenticity_score"`
	CommonConcerns          []string           `json:"common_concerns"`
	ReviewCredibility       string             `json:"review_credibility"` // high, medium, low
}

// PriceAnalysis maps a price onto value and market tiers
type PriceAnalysis struct {
	PriceRange         string   `json:"price_range"`
	NumericPrice       *float64 `json:"numeric_price,omitempty"`
	ValueAssessment    string   `json:"value_assessment"` // excellent, good, fair, poor, unknown
	PriceVsIngredients int      `json:"price_vs_ingredients"`
	MarketComparison   string   `json:"market_comparison"` // below_market, market_rate, above_market, premium
}
