package analyzer

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/zombar/realitycheck/internal/knowledgebase"
	"github.com/zombar/realitycheck/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Component weights of the reality score. Social is weighted highest because
// promotional bias is the dominant authenticity risk.
const (
	WeightProduct    = 0.20
	WeightSocial     = 0.30
	WeightIngredient = 0.25
	WeightReview     = 0.15
	WeightPrice      = 0.10
)

// neutralScore substitutes for a missing social post or review summary
const neutralScore = 75.0

const (
	sponsoredThreshold = 70
	authenticThreshold = 70
)

// Engine fuses the per-axis analyses into a reality check verdict. It holds
// only read-only reference data, so one Engine can serve any number of
// concurrent calls.
type Engine struct {
	kb *knowledgebase.KnowledgeBase

	beneficial      []string
	harmful         []string
	preservatives   []string
	spammyTags      []string
	organicTags     []string
	disclosure      map[string]bool
	promoKeywords   []string
	availability    map[string]int
	wellKnownBrands []string
	emergingBrands  []string

	now func() time.Time
}

// New creates an Engine backed by the given knowledge base
func New(kb *knowledgebase.KnowledgeBase) *Engine {
	return &Engine{
		kb:              kb,
		beneficial:      getBeneficialIngredients(),
		harmful:         getHarmfulIngredients(),
		preservatives:   getPreservatives(),
		spammyTags:      getSpammyHashtags(),
		organicTags:     getOrganicHashtags(),
		disclosure:      getDisclosureHashtags(),
		promoKeywords:   getPromotionalKeywords(),
		availability:    getPlatformAvailability(),
		wellKnownBrands: kb.WellKnownBrands(),
		emergingBrands:  kb.EmergingBrands(),
		now:             time.Now,
	}
}

// AnalyzeProduct runs a reality check. social and reviews may be nil.
func (e *Engine) AnalyzeProduct(product models.ProductRecord, social *models.SocialRecord, reviews *models.ReviewSummary) models.AnalysisResult {
	return e.AnalyzeProductWithContext(context.Background(), models.AnalysisInput{
		Product: product,
		Social:  social,
		Reviews: reviews,
	})
}

// AnalyzeProductWithContext runs a reality check with tracing and an optional
// user profile. It never fails: missing inputs degrade to neutral values.
func (e *Engine) AnalyzeProductWithContext(ctx context.Context, in models.AnalysisInput) models.AnalysisResult {
	_, span := otel.Tracer("realitycheck").Start(ctx, "realitycheck.analyze_product")
	defer span.End()

	var (
		productAnalysis    models.ProductAnalysis
		socialAnalysis     models.SocialAnalysis
		ingredientAnalysis models.IngredientAnalysis
		reviewAnalysis     models.ReviewAnalysis
		priceAnalysis      models.PriceAnalysis
	)

	// Each task writes only its own result; price needs the ingredient quality.
	var g errgroup.Group
	g.Go(func() error {
		productAnalysis = e.analyzeProduct(in.Product)
		return nil
	})
	g.Go(func() error {
		socialAnalysis = e.analyzeSocial(in.Social)
		return nil
	})
	g.Go(func() error {
		ingredientAnalysis = e.analyzeIngredients(in.Product.Ingredients.Parsed, in.Profile)
		priceAnalysis = analyzePrice(in.Product.Price, ingredientAnalysis.IngredientQualityScore)
		return nil
	})
	g.Go(func() error {
		reviewAnalysis = analyzeReviews(in.Reviews)
		return nil
	})
	_ = g.Wait()

	scores := componentScores(productAnalysis, socialAnalysis, ingredientAnalysis, reviewAnalysis, priceAnalysis)
	realityScore := weightedScore(scores)
	verdict := overallVerdict(socialAnalysis, realityScore)
	confidence := confidenceLevel(socialAnalysis.HasSocialData, realityScore)

	red, green, recs := generateInsights(insightInput{
		Product:     productAnalysis,
		Social:      socialAnalysis,
		Ingredients: ingredientAnalysis,
		Reviews:     reviewAnalysis,
		Price:       priceAnalysis,
		Score:       realityScore,
		Verdict:     verdict,
	})

	result := models.AnalysisResult{
		ProductAnalysis:    productAnalysis,
		SocialAnalysis:     socialAnalysis,
		IngredientAnalysis: ingredientAnalysis,
		ReviewAnalysis:     reviewAnalysis,
		PriceAnalysis:      priceAnalysis,
		ComponentScores:    scores,
		RealityScore:       realityScore,
		ConfidenceLevel:    confidence,
		OverallVerdict:     verdict,
		RedFlags:           red,
		GreenFlags:         green,
		Recommendations:    recs,
		AnalysisTimestamp:  e.now().UTC(),
		DataSources:        dataSources(in.Product, in.Social, reviewAnalysis),
	}

	span.SetAttributes(
		attribute.String("product.platform", in.Product.Platform),
		attribute.Int("reality.score", realityScore),
		attribute.String("reality.verdict", verdict),
		attribute.String("reality.confidence", confidence),
		attribute.Bool("input.has_social", in.Social != nil),
		attribute.Bool("input.has_reviews", in.Reviews != nil),
	)

	slog.Debug("reality check completed",
		"product", in.Product.Name,
		"platform", in.Product.Platform,
		"reality_score", realityScore,
		"verdict", verdict,
		"confidence", confidence,
	)

	return result
}

// componentScores averages each axis into a single 0-100 value
func componentScores(product models.ProductAnalysis, social models.SocialAnalysis,
	ingredients models.IngredientAnalysis, reviews models.ReviewAnalysis, price models.PriceAnalysis) models.ComponentScores {
	scores := models.ComponentScores{
		Product:    average(product.AvailabilityScore, product.PriceReasonableness),
		Social:     neutralScore,
		Ingredient: average(ingredients.IngredientQualityScore, ingredients.IngredientAuthenticity),
		Review:     neutralScore,
		Price:      float64(price.PriceVsIngredients),
	}
	if social.HasSocialData {
		scores.Social = average(100-social.SponsoredContentProbability, social.HashtagAuthenticity)
	}
	if reviews.ReviewCount > 0 {
		scores.Review = float64(reviews.ReviewAuthenticityScore)
	}
	return scores
}

func weightedScore(s models.ComponentScores) int {
	total := s.Product*WeightProduct +
		s.Social*WeightSocial +
		s.Ingredient*WeightIngredient +
		s.Review*WeightReview +
		s.Price*WeightPrice
	return clamp(int(math.Round(total)))
}

// overallVerdict lets promotion signals override the score entirely
func overallVerdict(social models.SocialAnalysis, score int) string {
	switch {
	case social.PromotionalDetected || social.SponsoredContentProbability > sponsoredThreshold:
		return models.VerdictLikelySponsored
	case score >= authenticThreshold:
		return models.VerdictAuthentic
	default:
		return models.VerdictSuspicious
	}
}

func confidenceLevel(hasSocial bool, score int) string {
	switch {
	case hasSocial && score > 80:
		return models.ConfidenceHigh
	case hasSocial || score > 60:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

func dataSources(product models.ProductRecord, social *models.SocialRecord, reviews models.ReviewAnalysis) []string {
	platform := strings.ToLower(strings.TrimSpace(product.Platform))
	if platform == "" {
		platform = "generic"
	}
	sources := []string{platform}
	if social != nil {
		tag := strings.ToLower(strings.TrimSpace(social.Platform))
		if tag == "" {
			tag = "social"
		}
		sources = append(sources, tag)
	}
	if reviews.ReviewCount > 0 {
		sources = append(sources, "reviews")
	}
	return sources
}

func average(a, b int) float64 {
	return float64(a+b) / 2
}

// clamp bounds a score to [0, 100]
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func containsAny(s string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(s, token) {
			return true
		}
	}
	return false
}
