package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zombar/realitycheck/internal/analyzer"
	"github.com/zombar/realitycheck/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a reality check on JSON records",
	Long: "Reads a product record and optional social, review and profile records as JSON files " +
		"and prints the analysis. --input accepts a single combined document instead.",
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("input", "", "Combined input JSON {product, social, reviews, profile}")
	analyzeCmd.Flags().String("product", "", "Product record JSON file")
	analyzeCmd.Flags().String("social", "", "Social post record JSON file")
	analyzeCmd.Flags().String("reviews", "", "Review summary JSON file")
	analyzeCmd.Flags().String("profile", "", "User profile JSON file")
	analyzeCmd.Flags().String("format", "json", "Output format: json, table")
	analyzeCmd.Flags().String("output", "", "Write the JSON report to this file as well")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("input")
	productPath, _ := cmd.Flags().GetString("product")
	socialPath, _ := cmd.Flags().GetString("social")
	reviewsPath, _ := cmd.Flags().GetString("reviews")
	profilePath, _ := cmd.Flags().GetString("profile")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if err := validateFormat(format); err != nil {
		return err
	}

	in, err := loadInput(inputPath, productPath, socialPath, reviewsPath, profilePath)
	if err != nil {
		return err
	}

	kb, err := loadKnowledgeBase(cmd)
	if err != nil {
		return err
	}

	result := analyzer.New(kb).AnalyzeProductWithContext(context.Background(), in)

	if outputPath != "" {
		if err := writeReport(outputPath, result); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if format == "table" {
		printAnalysisTable(out, result)
		return nil
	}
	return encodeJSON(out, result)
}

func validateFormat(format string) error {
	switch format {
	case "json", "table":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or table)", format)
	}
}

// loadInput assembles an AnalysisInput either from one combined file or from
// the per-record files. Records other than the product are optional.
func loadInput(inputPath, productPath, socialPath, reviewsPath, profilePath string) (models.AnalysisInput, error) {
	var in models.AnalysisInput

	switch {
	case inputPath != "" && productPath != "":
		return in, errors.New("--input and --product are mutually exclusive")
	case inputPath != "":
		if err := readJSON(inputPath, &in); err != nil {
			return in, err
		}
	case productPath != "":
		if err := readJSON(productPath, &in.Product); err != nil {
			return in, err
		}
	default:
		return in, errors.New("one of --input or --product is required")
	}

	if socialPath != "" {
		in.Social = &models.SocialRecord{}
		if err := readJSON(socialPath, in.Social); err != nil {
			return in, err
		}
	}
	if reviewsPath != "" {
		in.Reviews = &models.ReviewSummary{}
		if err := readJSON(reviewsPath, in.Reviews); err != nil {
			return in, err
		}
	}
	if profilePath != "" {
		in.Profile = &models.UserProfile{}
		if err := readJSON(profilePath, in.Profile); err != nil {
			return in, err
		}
	}

	if strings.TrimSpace(in.Product.Name) == "" {
		return in, errors.New("product name is required")
	}
	return in, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func writeReport(path string, result models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := encodeJSON(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
