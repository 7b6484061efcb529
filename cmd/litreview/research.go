// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/internal/jobs"
	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/internal/pipeline"
	"github.com/pdiddy/litreview/pkg/types"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultUserAgent = "litreview/0.1"
	pollInterval     = 2 * time.Second
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run a full literature discovery and synthesis job",
	Long: `Research submits the question as an asynchronous job, polls until it
reaches a terminal state, and prints the ranked papers, the synthesized
narrative, and the reference list. Per-source failures are absorbed and
reported in the run summary rather than aborting the job.`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().StringSlice("sources", nil, "source adapters to query: arxiv, openalex, pubmed (default all)")
	researchCmd.Flags().StringSlice("include-domains", nil, "keep only papers tagged with at least one of these domains")
	researchCmd.Flags().StringSlice("exclude-domains", nil, "drop papers tagged with any of these domains")
	researchCmd.Flags().Int("max-results", 0, "maximum papers in the final set (default from --depth)")
	researchCmd.Flags().String("depth", "medium", "search depth preset: low, medium, high")
	researchCmd.Flags().String("model", "", "AI model identifier")
	researchCmd.Flags().String("api-key", "", "Anthropic API key (default: .secrets/anthropic-api-key)")
	researchCmd.Flags().Duration("timeout", 0, "per-job wall-clock ceiling (default 10m)")
	researchCmd.Flags().String("archive", "", "SQLite path for the completed-job archive (default disabled)")
	researchCmd.Flags().String("output", "", "save the query and result to a YAML file (reload with 'litreview show')")
	researchCmd.Flags().Bool("json", false, "output the full result as JSON")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	query, err := queryFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	apiKey, _ := cmd.Flags().GetString("api-key")
	apiKey = secretDefault("anthropic-api-key", apiKey)
	if apiKey == "" {
		return fmt.Errorf("no API key: provide --api-key or .secrets/anthropic-api-key")
	}

	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := types.DefaultPipelineConfig()
	cfg.AI.Model = query.Model
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Jobs.Timeout = timeout
	}
	if ttl := viper.GetDuration("jobs.ttl"); ttl > 0 {
		cfg.Jobs.TTL = ttl
	}

	client := &model.ClaudeClient{
		APIKey: apiKey,
		Model:  query.Model,
		Client: &http.Client{Timeout: cfg.Fetch.Timeout},
	}

	p := pipeline.New(client, cfg, pipeline.Secrets{
		OpenAlexEmail: secretDefault("openalex-email", viper.GetString("openalex_email")),
		NCBIAPIKey:    secretDefault("ncbi-api-key", ""),
	}, logger)

	registry := jobs.NewRegistry(cfg.Jobs.TTL)
	defer registry.Stop()

	orch := &jobs.Orchestrator{
		Runner:   p,
		Registry: registry,
		Config:   cfg.Jobs,
		Logger:   logger,
	}

	if archivePath, _ := cmd.Flags().GetString("archive"); archivePath != "" {
		archive, err := jobs.OpenArchive(archivePath)
		if err != nil {
			return err
		}
		defer archive.Close()
		orch.Archive = archive
	}

	id, err := orch.Submit(query)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Submitted job %s\n", id)

	job := waitForJob(orch, id)
	if job.Status == jobs.StatusFailure {
		return fmt.Errorf("job failed (%s): %s", job.ErrorKind, job.Error)
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		if err := pipeline.WriteResultFile(outPath, query, *job.Result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved result to %s\n", outPath)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatResult(*job.Result, jsonOutput)
}

func queryFromFlags(cmd *cobra.Command, text string) (types.ResearchQuery, error) {
	includeIDs, _ := cmd.Flags().GetStringSlice("include-domains")
	include, err := types.ParseDomains(includeIDs)
	if err != nil {
		return types.ResearchQuery{}, err
	}
	excludeIDs, _ := cmd.Flags().GetStringSlice("exclude-domains")
	exclude, err := types.ParseDomains(excludeIDs)
	if err != nil {
		return types.ResearchQuery{}, err
	}

	sources, _ := cmd.Flags().GetStringSlice("sources")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	depth, _ := cmd.Flags().GetString("depth")
	modelID, _ := cmd.Flags().GetString("model")
	if modelID == "" {
		modelID = viper.GetString("model")
	}
	if modelID == "" {
		modelID = defaultModel
	}

	query := types.ResearchQuery{
		Text:           text,
		Sources:        sources,
		IncludeDomains: include,
		ExcludeDomains: exclude,
		MaxResults:     maxResults,
		Model:          modelID,
		Depth:          types.Depth(depth),
	}
	return query, query.Validate()
}

// waitForJob polls until the job reaches a terminal state. The job ceiling
// guarantees termination, so no deadline is needed here.
func waitForJob(orch *jobs.Orchestrator, id string) jobs.Job {
	for {
		job, err := orch.Poll(id)
		if err != nil {
			// Evicted mid-poll can only mean a TTL shorter than the poll
			// interval; treat as failure.
			return jobs.Job{Status: jobs.StatusFailure, ErrorKind: types.KindTimeout, Error: err.Error()}
		}
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(pollInterval)
	}
}

func formatResult(result types.SynthesisResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if len(result.Papers) == 0 {
		fmt.Println(result.Narrative)
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-6s  %-60s  %-6s  %-20s  %s\n",
		"Rank", "Score", "Title", "Year", "Domains", "Sources")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 120))
	for i, p := range result.Papers {
		title := p.Title
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		domains := make([]string, len(p.Domains))
		for j, d := range p.Domains {
			domains[j] = string(d)
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-6.2f  %-60s  %-6d  %-20s  %s\n",
			i+1, p.Score, title, p.Year,
			strings.Join(domains, ","), strings.Join(p.MergedFrom, ","))
	}

	fmt.Fprintf(os.Stdout, "\n%s\n\nReferences\n----------\n", result.Narrative)
	for _, ref := range result.References {
		line := fmt.Sprintf("[%s] %s", ref.Key, ref.Title)
		if ref.URL != "" {
			line += " - " + ref.URL
		}
		fmt.Fprintln(os.Stdout, line)
	}

	s := result.Summary
	fmt.Fprintf(os.Stdout,
		"\nfetched: %d, duplicates: %d, excluded by domain: %d, below cutoff: %d, scoring failures: %d, final: %d\n",
		s.TotalFetched, s.Duplicates, s.ExcludedByDomain, s.BelowCutoff, s.ScoringFailures, s.FinalCount)
	if len(s.SourcesUsed) > 0 {
		fmt.Fprintf(os.Stdout, "sources: %s\n", strings.Join(s.SourcesUsed, ", "))
	}
	return nil
}
