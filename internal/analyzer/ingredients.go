package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/zombar/realitycheck/internal/knowledgebase"
	"github.com/zombar/realitycheck/internal/models"
)

// minIngredientLength filters parsing noise such as "ci" or stray punctuation
const minIngredientLength = 3

// analyzeIngredients classifies an ingredient list against the reference table
// and the beneficial/harmful token lists. The two lookups are independent and
// may disagree about the same ingredient.
//
// An ingredient missing from the reference table counts as safe. That only
// means no concern is recorded for it, not that it has been verified.
func (e *Engine) analyzeIngredients(ingredients []string, profile *models.UserProfile) models.IngredientAnalysis {
	result := models.IngredientAnalysis{
		TotalIngredients:      len(ingredients),
		BeneficialIngredients: []string{},
		HarmfulIngredients:    []string{},
		FlaggedIngredients:    []models.FlaggedIngredient{},
	}

	for _, raw := range ingredients {
		name := strings.ToLower(strings.TrimSpace(raw))
		if len(name) < minIngredientLength {
			continue
		}

		if entry, ok := e.kb.Lookup(name); ok {
			result.FlaggedIngredients = append(result.FlaggedIngredients, models.FlaggedIngredient{
				Name:           name,
				Issue:          entry.Issue,
				Severity:       entry.Severity,
				Recommendation: ingredientRecommendation(name, entry.Issue, entry.Severity, profile),
			})
		} else {
			result.SafeIngredientCount++
		}
	}

	for _, raw := range ingredients {
		name := strings.ToLower(strings.TrimSpace(raw))
		if containsAny(name, e.beneficial) {
			result.BeneficialIngredients = append(result.BeneficialIngredients, name)
		}
		if containsAny(name, e.harmful) {
			result.HarmfulIngredients = append(result.HarmfulIngredients, name)
		}
	}

	result.IngredientQualityScore = ingredientQualityScore(len(ingredients),
		len(result.BeneficialIngredients), len(result.HarmfulIngredients))
	result.IngredientAuthenticity = e.ingredientAuthenticity(ingredients)

	return result
}

// ingredientQualityScore rewards beneficial ratio and penalizes harmful ratio.
// An empty list scores 0.
func ingredientQualityScore(total, beneficial, harmful int) int {
	if total == 0 {
		return 0
	}

	beneficialRatio := float64(beneficial) / float64(total)
	harmfulRatio := float64(harmful) / float64(total)

	score := int(math.Round(beneficialRatio*70 + (1-harmfulRatio)*30))
	if beneficial > 0 && harmful == 0 {
		score += 10
	}

	return clamp(score)
}

// ingredientAuthenticity judges whether the list looks like a real INCI list.
// An empty list is neutral (50): absent, not implausible.
func (e *Engine) ingredientAuthenticity(ingredients []string) int {
	if len(ingredients) == 0 {
		return 50
	}

	score := 75
	if len(ingredients) >= 5 && len(ingredients) <= 50 {
		score += 10
	}

	first := strings.ToLower(strings.TrimSpace(ingredients[0]))
	if strings.HasPrefix(first, "water") || strings.HasPrefix(first, "aqua") {
		score += 10
	}

	for _, raw := range ingredients {
		if containsAny(strings.ToLower(raw), e.preservatives) {
			score += 5
			break
		}
	}

	return clamp(score)
}

// ingredientRecommendation picks advice for a flagged ingredient. Concern
// conflicts win over skin-type conflicts, which win over the generic text.
func ingredientRecommendation(name, issue, severity string, profile *models.UserProfile) string {
	var skinType string
	var concerns map[string]bool
	if profile != nil {
		skinType = strings.ToLower(strings.TrimSpace(profile.SkinType))
		concerns = make(map[string]bool, len(profile.Concerns))
		for _, c := range profile.Concerns {
			concerns[strings.ToLower(strings.TrimSpace(c))] = true
		}
	}

	issueKey := strings.ToLower(issue)
	high := severity == knowledgebase.SeverityHigh

	switch {
	case concerns["acne"] && issueKey == "comedogenic":
		return fmt.Sprintf("Avoid %s: it can clog pores and worsen acne", name)
	case concerns["sensitivity"] && high:
		return fmt.Sprintf("Avoid %s: high irritation risk for reactive skin", name)
	case skinType == "sensitive" && high:
		return fmt.Sprintf("Strongly avoid %s: high-severity %s concern for sensitive skin", name, issueKey)
	case skinType == "oily" && issueKey == "comedogenic":
		return fmt.Sprintf("Avoid %s: comedogenic ingredients are a poor fit for oily skin", name)
	case skinType == "dry" && issueKey == "drying":
		return fmt.Sprintf("Avoid %s: it will strip moisture from dry skin", name)
	default:
		return fmt.Sprintf("Avoid %s due to %s", name, issueKey)
	}
}
