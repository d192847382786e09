package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zombar/realitycheck/internal/knowledgebase"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <ingredient>...",
	Short: "Look up ingredients in the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().String("format", "json", "Output format: json, table")
	rootCmd.AddCommand(lookupCmd)
}

type lookupResult struct {
	Ingredient string `json:"ingredient"`
	Known      bool   `json:"known"`
	Issue      string `json:"issue,omitempty"`
	Severity   string `json:"severity,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := validateFormat(format); err != nil {
		return err
	}

	kb, err := loadKnowledgeBase(cmd)
	if err != nil {
		return err
	}

	results := lookupIngredients(kb, args)

	out := cmd.OutOrStdout()
	if format != "table" {
		return encodeJSON(out, results)
	}
	for _, r := range results {
		if !r.Known {
			fmt.Fprintf(out, "  %-30s  no known concerns\n", r.Ingredient)
			continue
		}
		fmt.Fprintf(out, "  %-30s  %-8s %s\n", r.Ingredient, r.Severity, r.Issue)
	}
	return nil
}

func lookupIngredients(kb *knowledgebase.KnowledgeBase, names []string) []lookupResult {
	results := make([]lookupResult, 0, len(names))
	for _, name := range names {
		r := lookupResult{Ingredient: name}
		if entry, ok := kb.Lookup(name); ok {
			r.Known = true
			r.Issue = entry.Issue
			r.Severity = entry.Severity
		}
		results = append(results, r)
	}
	return results
}
