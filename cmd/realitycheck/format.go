package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/zombar/realitycheck/internal/models"
)

// printAnalysisTable prints a human-friendly report card.
func printAnalysisTable(w io.Writer, r models.AnalysisResult) {
	p := r.ProductAnalysis
	fmt.Fprintf(w, " %s (%s)\n", p.ProductName, p.Platform)
	fmt.Fprintf(w, "    Reality score: %d/100  |  Verdict: %s  |  Confidence: %s\n",
		r.RealityScore, r.OverallVerdict, r.ConfidenceLevel)

	brand := p.BrandRecognition
	if p.MatchedBrand != "" {
		brand += " (" + p.MatchedBrand + ")"
	}
	fmt.Fprintf(w, "    Brand: %s  |  Price: %s, %s\n", brand, r.PriceAnalysis.PriceRange, r.PriceAnalysis.ValueAssessment)

	s := r.ComponentScores
	fmt.Fprintf(w, "    Scores: product %.0f, social %.0f, ingredient %.0f, review %.0f, price %.0f\n",
		s.Product, s.Social, s.Ingredient, s.Review, s.Price)

	if r.SocialAnalysis.HasSocialData {
		fmt.Fprintf(w, "    Sponsored probability: %d%%\n", r.SocialAnalysis.SponsoredContentProbability)
	}
	if len(r.IngredientAnalysis.FlaggedIngredients) > 0 {
		var flagged []string
		for _, f := range r.IngredientAnalysis.FlaggedIngredients {
			flagged = append(flagged, fmt.Sprintf("%s [%s]", f.Name, f.Severity))
		}
		fmt.Fprintf(w, "    Flagged: %s\n", strings.Join(flagged, ", "))
	}

	printList(w, "Red flags", r.RedFlags)
	printList(w, "Green flags", r.GreenFlags)
	printList(w, "Recommendations", r.Recommendations)
	fmt.Fprintf(w, "    Sources: %s\n", strings.Join(r.DataSources, ", "))
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "    %s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "      - %s\n", item)
	}
}
