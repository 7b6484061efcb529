// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores classified papers against the original query and
// applies the relevance cutoff. Scoring calls run under a bounded semaphore
// to respect model rate limits; a failed call excludes the paper rather than
// letting an unvetted record through.
package relevance

import (
	"bytes"
	"context"
	"sort"
	"text/template"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/pkg/types"
)

// scoringPromptTmpl asks the model to judge one paper against the query.
var scoringPromptTmpl = template.Must(template.New("scoring").Parse(`You are a research relevance assessor. Rate how relevant the paper below is to the research query.

Score on a scale from 0.0 to 1.0:
- 0.8-1.0: directly addresses the query
- 0.5-0.7: substantially related, useful background
- 0.2-0.4: tangentially related
- 0.0-0.1: unrelated

Respond with a JSON object only, no text outside it:
{"score": 0.85, "reasoning": "one or two sentences"}

Research query: {{.Query}}

Paper title: {{.Title}}
Paper abstract: {{.Abstract}}
`))

// aiScore is the structured response expected from the model.
type aiScore struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Output holds the surviving ranked papers and scoring accounting.
type Output struct {
	Papers          []types.ScoredPaper
	Scored          int
	ScoringFailures int
	BelowCutoff     int
}

// Filter scores papers and applies the relevance cutoff.
type Filter struct {
	Client     model.Client
	Config     types.RelevanceConfig
	MaxRetries int
	Logger     *zap.Logger
}

// Run scores every paper against the query, drops papers below the cutoff,
// orders survivors by score descending (ties: include-domain overlap, then
// year descending), and truncates to maxResults. A scoring failure is
// fail-closed: the paper is excluded and counted, never silently included.
func (f *Filter) Run(ctx context.Context, query types.ResearchQuery, papers []types.ClassifiedPaper) (Output, error) {
	cutoff := f.Config.Cutoff
	if cutoff <= 0 {
		cutoff = 0.5
	}
	concurrency := int64(f.Config.Concurrency)
	if concurrency <= 0 {
		concurrency = 3
	}

	scored := make([]types.ScoredPaper, len(papers))
	failed := make([]bool, len(papers))

	sem := semaphore.NewWeighted(concurrency)
	for i, p := range papers {
		if err := sem.Acquire(ctx, 1); err != nil {
			return Output{}, err
		}
		go func(i int, p types.ClassifiedPaper) {
			defer sem.Release(1)

			score, reasoning, err := f.scoreOne(ctx, query.Text, p)
			if err != nil {
				failed[i] = true
				if f.Logger != nil {
					f.Logger.Warn("relevance scoring failed, excluding paper",
						zap.String("title", p.Title),
						zap.Error(err))
				}
				return
			}
			scored[i] = types.ScoredPaper{
				ClassifiedPaper: p,
				Score:           score,
				Reasoning:       reasoning,
			}
		}(i, p)
	}
	if err := sem.Acquire(ctx, concurrency); err != nil {
		return Output{}, err
	}

	includeSet := types.NewDomainSet(query.IncludeDomains)

	var out Output
	for i := range papers {
		if failed[i] {
			out.ScoringFailures++
			continue
		}
		out.Scored++
		if scored[i].Score < cutoff {
			out.BelowCutoff++
			continue
		}
		scored[i].Included = true
		out.Papers = append(out.Papers, scored[i])
	}

	sort.SliceStable(out.Papers, func(i, j int) bool {
		a, b := out.Papers[i], out.Papers[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ao, bo := includeSet.Overlap(a.Domains), includeSet.Overlap(b.Domains)
		if ao != bo {
			return ao > bo
		}
		return a.Year > b.Year
	})

	if max := query.EffectiveMaxResults(); max > 0 && len(out.Papers) > max {
		out.Papers = out.Papers[:max]
	}

	return out, nil
}

// scoreOne runs the scoring prompt for one paper and clamps the score
// into [0,1].
func (f *Filter) scoreOne(ctx context.Context, queryText string, p types.ClassifiedPaper) (float64, string, error) {
	var buf bytes.Buffer
	err := scoringPromptTmpl.Execute(&buf, struct {
		Query    string
		Title    string
		Abstract string
	}{Query: queryText, Title: p.Title, Abstract: p.Abstract})
	if err != nil {
		return 0, "", err
	}

	raw, err := model.CompleteWithRetry(ctx, f.Client, buf.String(), f.MaxRetries)
	if err != nil {
		return 0, "", err
	}

	var parsed aiScore
	if err := model.DecodeJSON(raw, &parsed); err != nil {
		return 0, "", err
	}

	score := parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, parsed.Reasoning, nil
}
