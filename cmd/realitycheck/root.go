package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zombar/realitycheck/internal/config"
	"github.com/zombar/realitycheck/internal/knowledgebase"
)

var rootCmd = &cobra.Command{
	Use:   "realitycheck",
	Short: "Reality check for beauty products",
	Long: "Scores how trustworthy a beauty product's online presence is from its product record, " +
		"social post, review summary and ingredient list.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("knowledge", "", "Path to a knowledge base TOML file (default: built-in)")
}

// loadKnowledgeBase resolves the --knowledge flag, falling back to the
// server's REALITYCHECK_KNOWLEDGE_BASE_PATH and then the embedded table.
func loadKnowledgeBase(cmd *cobra.Command) (*knowledgebase.KnowledgeBase, error) {
	path, _ := cmd.Flags().GetString("knowledge")
	if path == "" {
		path = os.Getenv(config.EnvKey(config.KnowledgeBasePathKey))
	}
	kb, err := knowledgebase.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge base: %w", err)
	}
	return kb, nil
}
