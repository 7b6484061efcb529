// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/expand"
	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/pkg/types"
)

var expandCmd = &cobra.Command{
	Use:   "expand [query]",
	Short: "Preview the terminology expansion for a query",
	Long: `Expand shows the related academic terms a research job would search
with, without fetching any papers. Use --static to skip the model call and
see only the built-in vocabulary fallback.`,
	Args: cobra.ExactArgs(1),
	RunE: runExpand,
}

func init() {
	expandCmd.Flags().StringSlice("include-domains", nil, "constrain expansion to these domains")
	expandCmd.Flags().Bool("static", false, "use only the static vocabulary, no model call")
	expandCmd.Flags().String("model", "", "AI model identifier")
	expandCmd.Flags().String("api-key", "", "Anthropic API key (default: .secrets/anthropic-api-key)")
	expandCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	includeIDs, _ := cmd.Flags().GetStringSlice("include-domains")
	include, err := types.ParseDomains(includeIDs)
	if err != nil {
		return err
	}

	static, _ := cmd.Flags().GetBool("static")
	cfg := types.DefaultPipelineConfig()
	cfg.Expansion.DisableAI = static

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	expander := &expand.Expander{
		Config:     cfg.Expansion,
		MaxRetries: cfg.AI.MaxRetries,
		Logger:     logger,
	}

	if !static {
		apiKey, _ := cmd.Flags().GetString("api-key")
		apiKey = secretDefault("anthropic-api-key", apiKey)
		if apiKey == "" {
			return fmt.Errorf("no API key: provide --api-key, .secrets/anthropic-api-key, or --static")
		}
		modelID, _ := cmd.Flags().GetString("model")
		if modelID == "" {
			modelID = viper.GetString("model")
		}
		if modelID == "" {
			modelID = defaultModel
		}
		expander.Client = &model.ClaudeClient{APIKey: apiKey, Model: modelID}
	}

	terms := expander.Expand(context.Background(), args[0], include)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(terms)
	}

	printTerms := func(label string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(os.Stdout, "%-22s  %s\n", label, strings.Join(values, ", "))
	}
	printTerms("Primary", terms.Primary)
	printTerms("Adjacent", terms.Adjacent)
	printTerms("Broader", terms.Broader)
	printTerms("Narrower", terms.Narrower)
	printTerms("Alternative phrasings", terms.AlternativePhrasings)
	printTerms("Related concepts", terms.RelatedConcepts)
	return nil
}
