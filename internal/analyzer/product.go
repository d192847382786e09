package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zombar/realitycheck/internal/models"
)

// Brand recognition tiers
const (
	BrandWellKnown = "well_known"
	BrandEmerging  = "emerging"
	BrandUnknown   = "unknown"
)

const defaultAvailability = 50

// analyzeProduct scores product legitimacy from platform and brand heuristics
func (e *Engine) analyzeProduct(product models.ProductRecord) models.ProductAnalysis {
	tier, brand := e.recognizeBrand(product.Name)
	return models.ProductAnalysis{
		ProductName:         product.Name,
		Platform:            product.Platform,
		BrandRecognition:    tier,
		MatchedBrand:        brand,
		AvailabilityScore:   e.availabilityScore(product.Platform),
		PriceReasonableness: priceReasonableness(product.Price),
	}
}

// recognizeBrand checks well-known brands first, then the emerging list.
// Brands match as whole words so "fresh" does not fire inside "refreshing".
func (e *Engine) recognizeBrand(productName string) (string, string) {
	name := strings.ToLower(productName)
	if name == "" {
		return BrandUnknown, ""
	}
	for _, brand := range e.wellKnownBrands {
		if containsWord(name, brand) {
			return BrandWellKnown, brand
		}
	}
	for _, brand := range e.emergingBrands {
		if containsWord(name, brand) {
			return BrandEmerging, brand
		}
	}
	return BrandUnknown, ""
}

// containsWord reports whether token occurs in s without a letter or digit
// directly before or after it.
func containsWord(s, token string) bool {
	if token == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(s[from:], token)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(token)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		from = start + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (e *Engine) availabilityScore(platform string) int {
	if score, ok := e.availability[strings.ToLower(strings.TrimSpace(platform))]; ok {
		return score
	}
	return defaultAvailability
}

// priceReasonableness is tiered independently of the price evaluator.
// An unparseable price is neutral.
func priceReasonableness(priceText string) int {
	price, ok := parsePrice(priceText)
	if !ok {
		return 50
	}
	switch {
	case price <= 15:
		return 95
	case price <= 30:
		return 85
	case price <= 60:
		return 70
	case price <= 100:
		return 50
	default:
		return 30
	}
}
