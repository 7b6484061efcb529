// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the discovery-and-synthesis stages into one run:
// expand → build → fetch → dedup → classify → filter → synthesize. Data
// flows strictly forward; per-source and per-record failures are absorbed
// into the run summary, fatal errors abort the run.
package pipeline

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/litreview/internal/classify"
	"github.com/pdiddy/litreview/internal/dedup"
	"github.com/pdiddy/litreview/internal/expand"
	"github.com/pdiddy/litreview/internal/fetch"
	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/internal/querybuild"
	"github.com/pdiddy/litreview/internal/relevance"
	"github.com/pdiddy/litreview/internal/synthesis"
	"github.com/pdiddy/litreview/pkg/types"
)

// Pipeline holds the wired stages for one deployment. All stages are
// stateless between runs, so a single Pipeline serves concurrent jobs.
type Pipeline struct {
	Expander    *expand.Expander
	Builder     *querybuild.Builder
	Fetcher     *fetch.Fetcher
	Classifier  *classify.Classifier
	Filter      *relevance.Filter
	Synthesizer *synthesis.Engine
	Logger      *zap.Logger
}

// Secrets are the optional credentials handed to source adapters.
type Secrets struct {
	OpenAlexEmail string
	NCBIAPIKey    string
}

// New wires the default pipeline: the three bundled source adapters and
// every AI stage sharing one model client.
func New(client model.Client, cfg types.PipelineConfig, secrets Secrets, logger *zap.Logger) *Pipeline {
	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}

	adapters := []fetch.SourceAdapter{
		&fetch.ArxivAdapter{Client: httpClient, UserAgent: cfg.Fetch.UserAgent},
		&fetch.OpenAlexAdapter{Client: httpClient, UserAgent: cfg.Fetch.UserAgent, Email: secrets.OpenAlexEmail},
		&fetch.PubMedAdapter{Client: httpClient, UserAgent: cfg.Fetch.UserAgent, APIKey: secrets.NCBIAPIKey, Email: secrets.OpenAlexEmail},
	}

	return &Pipeline{
		Expander:    &expand.Expander{Client: client, Config: cfg.Expansion, MaxRetries: cfg.AI.MaxRetries, Logger: logger},
		Builder:     &querybuild.Builder{Config: cfg.Queries},
		Fetcher:     &fetch.Fetcher{Adapters: adapters, Config: cfg.Fetch, Logger: logger},
		Classifier:  &classify.Classifier{Client: client, Config: cfg.Classify, MaxRetries: cfg.AI.MaxRetries, Logger: logger},
		Filter:      &relevance.Filter{Client: client, Config: cfg.Relevance, MaxRetries: cfg.AI.MaxRetries, Logger: logger},
		Synthesizer: &synthesis.Engine{Client: client, MaxRetries: cfg.AI.MaxRetries, Logger: logger},
		Logger:      logger,
	}
}

// Run executes the full pipeline for one validated query.
func (p *Pipeline) Run(ctx context.Context, query types.ResearchQuery) (types.SynthesisResult, error) {
	if verr := query.Validate(); verr != nil {
		return types.SynthesisResult{}, verr
	}

	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	terms := p.Expander.Expand(ctx, query.Text, query.IncludeDomains)
	logger.Info("terminology expanded",
		zap.Int("primary", len(terms.Primary)),
		zap.Bool("degraded", terms.IsEmpty()))

	candidates := p.Builder.Build(query, terms)
	logger.Info("candidate queries built", zap.Int("count", len(candidates)))

	fetched, err := p.Fetcher.Fetch(ctx, candidates)
	if err != nil {
		return types.SynthesisResult{}, err
	}

	summary := types.RunSummary{
		TotalFetched:  len(fetched.Records),
		SourceReports: fetched.Reports,
	}
	for _, rep := range fetched.Reports {
		if rep.Papers > 0 {
			summary.SourcesUsed = append(summary.SourcesUsed, rep.Source)
		}
	}
	logger.Info("records fetched",
		zap.Int("total", summary.TotalFetched),
		zap.Strings("sources", summary.SourcesUsed))

	deduped := dedup.Deduplicate(fetched.Records)
	summary.Duplicates = deduped.Duplicates

	classified := p.Classifier.Classify(ctx, deduped.Records, query.IncludeDomains, query.ExcludeDomains)
	summary.Classified = len(classified.Papers)
	summary.ExcludedByDomain = classified.ExcludedByDomain
	logger.Info("records classified",
		zap.Int("kept", summary.Classified),
		zap.Int("excluded_by_domain", summary.ExcludedByDomain))

	ranked, err := p.Filter.Run(ctx, query, classified.Papers)
	if err != nil {
		return types.SynthesisResult{}, err
	}
	summary.Scored = ranked.Scored
	summary.ScoringFailures = ranked.ScoringFailures
	summary.BelowCutoff = ranked.BelowCutoff
	summary.FinalCount = len(ranked.Papers)
	logger.Info("relevance applied",
		zap.Int("final", summary.FinalCount),
		zap.Int("scoring_failures", summary.ScoringFailures))

	return p.Synthesizer.Run(ctx, query, ranked.Papers, summary)
}
