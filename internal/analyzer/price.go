package analyzer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zombar/realitycheck/internal/models"
)

// Value assessments
const (
	ValueExcellent = "excellent"
	ValueGood      = "good"
	ValueFair      = "fair"
	ValuePoor      = "poor"
	ValueUnknown   = "unknown"
)

// Market comparisons
const (
	MarketBelow   = "below_market"
	MarketRate    = "market_rate"
	MarketAbove   = "above_market"
	MarketPremium = "premium"
)

// priceNumberPattern matches the first number in a price string, allowing
// thousands separators ("1,299.00") and plain decimals ("14.99").
var priceNumberPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?`)

// parsePrice extracts the first numeric token from free-text price
func parsePrice(text string) (float64, bool) {
	match := priceNumberPattern.FindString(text)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// analyzePrice maps a price onto value-for-money and market tiers. When the
// price cannot be parsed the original text is echoed back with neutral values.
func analyzePrice(priceText string, ingredientQuality int) models.PriceAnalysis {
	price, ok := parsePrice(priceText)
	if !ok {
		return models.PriceAnalysis{
			PriceRange:         priceText,
			ValueAssessment:    ValueUnknown,
			PriceVsIngredients: 50,
			MarketComparison:   MarketRate,
		}
	}

	return models.PriceAnalysis{
		PriceRange:         priceRangeLabel(price),
		NumericPrice:       &price,
		ValueAssessment:    valueAssessment(price, ingredientQuality),
		PriceVsIngredients: priceVsIngredients(price, ingredientQuality),
		MarketComparison:   marketComparison(price),
	}
}

func priceRangeLabel(price float64) string {
	switch {
	case price <= 15:
		return "Budget"
	case price <= 30:
		return "Affordable"
	case price <= 60:
		return "Mid-range"
	case price <= 100:
		return "Premium"
	default:
		return "Luxury"
	}
}

func marketComparison(price float64) string {
	switch {
	case price <= 15:
		return MarketBelow
	case price <= 30:
		return MarketRate
	case price <= 100:
		return MarketAbove
	default:
		return MarketPremium
	}
}

// valueAssessment divides ingredient quality by price in tens of dollars.
// Prices under one dollar are treated as one dollar.
func valueAssessment(price float64, ingredientQuality int) string {
	value := float64(ingredientQuality) / (math.Max(price, 1) / 10)
	switch {
	case value >= 8:
		return ValueExcellent
	case value >= 6:
		return ValueGood
	case value >= 4:
		return ValueFair
	default:
		return ValuePoor
	}
}

// priceVsIngredients compares an "expected" price derived from quality with
// the real one. It is a rough heuristic, not a calibrated economic model.
func priceVsIngredients(price float64, ingredientQuality int) int {
	expected := float64(ingredientQuality) * 0.8
	ratio := expected / math.Max(price, 1)
	return clamp(int(math.Round(ratio * 100)))
}
