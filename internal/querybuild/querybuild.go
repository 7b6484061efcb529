// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package querybuild turns a research query plus its expanded terminology
// into a bounded set of candidate search strings per source.
package querybuild

import (
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

const defaultMaxPerSource = 4

// Builder constructs candidate queries for each source adapter.
type Builder struct {
	Config types.QueryBuildConfig
}

// Build returns at most MaxPerSource candidate queries per source. The
// unmodified query text always comes first so a degraded expansion can never
// remove the baseline search. Candidates are deduplicated case-insensitively
// within each source, preserving order.
func (b *Builder) Build(q types.ResearchQuery, terms types.ExpandedTerminology) []types.CandidateQuery {
	maxPerSource := b.Config.MaxPerSource
	if maxPerSource <= 0 {
		maxPerSource = defaultMaxPerSource
	}

	texts := candidateTexts(q, terms, maxPerSource)

	var out []types.CandidateQuery
	for _, source := range q.EffectiveSources() {
		for _, c := range texts {
			out = append(out, types.CandidateQuery{
				Text:     c.text,
				Source:   source,
				Strategy: c.strategy,
			})
		}
	}
	return out
}

type candidate struct {
	text     string
	strategy types.QueryStrategy
}

// candidateTexts builds the per-source candidate list: the original text,
// then term-expansion variants, then a domain-qualified variant.
func candidateTexts(q types.ResearchQuery, terms types.ExpandedTerminology, maxPerSource int) []candidate {
	seen := map[string]bool{}
	var out []candidate

	add := func(text string, strategy types.QueryStrategy) {
		text = strings.TrimSpace(text)
		key := strings.ToLower(text)
		if text == "" || seen[key] || len(out) >= maxPerSource {
			return
		}
		seen[key] = true
		out = append(out, candidate{text: text, strategy: strategy})
	}

	add(q.Text, types.StrategyBroad)

	primary := q.Text
	if len(terms.Primary) > 0 {
		primary = terms.Primary[0]
	}
	for _, term := range rankedTerms(terms) {
		if len(out) >= maxPerSource-boolToInt(len(q.IncludeDomains) > 0) {
			break
		}
		if strings.EqualFold(term, primary) {
			continue
		}
		add(primary+" "+term, types.StrategyTermExpansion)
	}

	if len(q.IncludeDomains) > 0 {
		names := make([]string, len(q.IncludeDomains))
		for i, d := range q.IncludeDomains {
			names[i] = d.DisplayName()
		}
		add(q.Text+" "+strings.Join(names, " "), types.StrategyDomainQualified)
	}

	return out
}

// rankedTerms interleaves the expansion categories best-first: alternative
// phrasings are closest to the user's intent, then narrower refinements,
// then adjacent concepts.
func rankedTerms(terms types.ExpandedTerminology) []string {
	var out []string
	categories := [][]string{terms.AlternativePhrasings, terms.Narrower, terms.Adjacent}
	for i := 0; ; i++ {
		advanced := false
		for _, cat := range categories {
			if i < len(cat) {
				out = append(out, cat[i])
				advanced = true
			}
		}
		if !advanced {
			return out
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
