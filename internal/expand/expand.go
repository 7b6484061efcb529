// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package expand generates domain-aware related terminology for a research
// query. Expansion is best-effort: the AI path improves coverage, the static
// vocabulary path guarantees a deterministic result, and neither path can
// fail the pipeline.
package expand

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/pkg/types"
)

// expansionPromptTmpl instructs the model to produce categorized related
// terminology as strict JSON.
var expansionPromptTmpl = template.Must(template.New("expansion").Parse(`You are an expert research librarian and terminology specialist. Expand the research query below with related academic terminology to improve paper discovery across scholarly databases (arXiv, OpenAlex, PubMed).

Generate:
1. adjacent_terms: related concepts in the same field
2. broader_terms: higher-level categories that encompass the topic
3. narrower_terms: more specific subtopics
4. alternative_phrasings: synonyms and different ways to express the same concepts, including common abbreviations
5. related_methods: techniques, algorithms, or approaches commonly used
6. cross_disciplinary: related concepts from adjacent fields
{{if .Domains}}
Constrain every term to the vocabulary of these research domains: {{.Domains}}. Interpret ambiguous words in those domains' technical sense only.
{{end}}
Guidelines: focus on academic and technical terminology; avoid generic terms like "research", "study", "analysis"; at most {{.Max}} terms per category.

Respond with a JSON object only, no text outside it:
{"adjacent_terms": [...], "broader_terms": [...], "narrower_terms": [...], "alternative_phrasings": [...], "related_methods": [...], "cross_disciplinary": [...]}

Query: {{.Query}}
`))

// aiExpansion is the structured response expected from the model.
type aiExpansion struct {
	AdjacentTerms        []string `json:"adjacent_terms"`
	BroaderTerms         []string `json:"broader_terms"`
	NarrowerTerms        []string `json:"narrower_terms"`
	AlternativePhrasings []string `json:"alternative_phrasings"`
	RelatedMethods       []string `json:"related_methods"`
	CrossDisciplinary    []string `json:"cross_disciplinary"`
}

// Expander generates related terminology for queries.
type Expander struct {
	Client     model.Client
	Config     types.ExpansionConfig
	MaxRetries int
	Logger     *zap.Logger
}

// Expand produces related terminology for the query text. When include is
// non-empty the expansion is constrained to those domains' vocabulary.
// Expansion never fails: if the model is unavailable or returns garbage the
// static vocabulary result is returned instead.
func (e *Expander) Expand(ctx context.Context, text string, include []types.Domain) types.ExpandedTerminology {
	maxTerms := e.Config.MaxTermsPerCategory
	if maxTerms <= 0 {
		maxTerms = 10
	}

	result := e.staticExpand(text, include, maxTerms)

	if e.Config.DisableAI || e.Client == nil {
		return result
	}

	aiTerms, err := e.aiExpand(ctx, text, include)
	if err != nil {
		if e.Logger != nil {
			e.Logger.Warn("AI terminology expansion failed, using static vocabulary",
				zap.String("query", text),
				zap.Error(err))
		}
		return result
	}

	exclude := lowerSet(result.Primary)
	result.Adjacent = mergeLimit(result.Adjacent, aiTerms.AdjacentTerms, exclude, maxTerms)
	result.Broader = mergeLimit(result.Broader, aiTerms.BroaderTerms, exclude, maxTerms)
	result.Narrower = mergeLimit(result.Narrower, aiTerms.NarrowerTerms, exclude, maxTerms)
	result.AlternativePhrasings = mergeLimit(result.AlternativePhrasings, aiTerms.AlternativePhrasings, exclude, maxTerms)
	result.RelatedConcepts = mergeLimit(result.RelatedConcepts,
		append(aiTerms.RelatedMethods, aiTerms.CrossDisciplinary...), exclude, maxTerms)

	return result
}

// aiExpand renders the expansion prompt, calls the model, and decodes the
// structured response.
func (e *Expander) aiExpand(ctx context.Context, text string, include []types.Domain) (aiExpansion, error) {
	maxTerms := e.Config.MaxTermsPerCategory
	if maxTerms <= 0 {
		maxTerms = 10
	}

	names := make([]string, len(include))
	for i, d := range include {
		names[i] = d.DisplayName()
	}

	var buf bytes.Buffer
	err := expansionPromptTmpl.Execute(&buf, struct {
		Query   string
		Domains string
		Max     int
	}{Query: text, Domains: strings.Join(names, ", "), Max: maxTerms})
	if err != nil {
		return aiExpansion{}, err
	}

	raw, err := model.CompleteWithRetry(ctx, e.Client, buf.String(), e.MaxRetries)
	if err != nil {
		return aiExpansion{}, err
	}

	var parsed aiExpansion
	if err := model.DecodeJSON(raw, &parsed); err != nil {
		return aiExpansion{}, err
	}
	return parsed, nil
}

// staticExpand builds an expansion from the built-in vocabulary tables.
// Deterministic for a given input.
func (e *Expander) staticExpand(text string, include []types.Domain, maxTerms int) types.ExpandedTerminology {
	concepts := extractKeyConcepts(text)

	domains := include
	if len(domains) == 0 {
		domains = detectDomains(text)
	}

	var adjacent, broader, narrower, related, altPhrasings []string

	for _, d := range domains {
		entry, ok := domainVocab[d]
		if !ok {
			continue
		}
		broader = append(broader, entry.broader...)
		adjacent = append(adjacent, entry.adjacent...)
		narrower = append(narrower, entry.narrower...)
		related = append(related, entry.methods...)
	}

	for _, concept := range concepts {
		lower := strings.ToLower(concept)
		for _, term := range synonymKeys {
			if strings.Contains(lower, term) {
				altPhrasings = append(altPhrasings, synonymTable[term]...)
				related = append(related, term)
			}
		}

		// Singular/plural variants.
		if strings.HasSuffix(concept, "s") && len(concept) > 3 {
			altPhrasings = append(altPhrasings, concept[:len(concept)-1])
		} else {
			altPhrasings = append(altPhrasings, concept+"s")
		}
	}

	exclude := lowerSet(concepts)
	return types.ExpandedTerminology{
		Primary:              limit(concepts, maxTerms),
		Adjacent:             mergeLimit(nil, adjacent, exclude, maxTerms),
		Broader:              mergeLimit(nil, broader, exclude, maxTerms/2),
		Narrower:             mergeLimit(nil, narrower, exclude, maxTerms),
		AlternativePhrasings: mergeLimit(nil, altPhrasings, exclude, maxTerms),
		RelatedConcepts:      mergeLimit(nil, related, exclude, maxTerms),
		DomainContext:        include,
	}
}

// mergeLimit appends extra onto base, dropping case-insensitive duplicates
// and any term present in exclude, then caps the result at limit.
func mergeLimit(base, extra []string, exclude map[string]bool, limit int) []string {
	seen := map[string]bool{}
	var out []string
	for _, term := range append(append([]string{}, base...), extra...) {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" || seen[key] || exclude[key] {
			continue
		}
		seen[key] = true
		out = append(out, strings.TrimSpace(term))
		if len(out) >= limit {
			break
		}
	}
	return out
}

func limit(terms []string, n int) []string {
	if len(terms) > n {
		return terms[:n]
	}
	return terms
}

func lowerSet(terms []string) map[string]bool {
	set := make(map[string]bool, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = true
	}
	return set
}
