// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesis produces the final narrative over the ranked paper set.
// Its defining guarantee is citation integrity: every inline citation in the
// narrative resolves to a paper that was actually in the input, and the
// reference list is built strictly from first-appearance order of citations.
package synthesis

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"go.uber.org/zap"

	"github.com/pdiddy/litreview/internal/model"
	"github.com/pdiddy/litreview/pkg/types"
)

// emptyNarrative is returned when no papers survived the pipeline. An empty
// result set is a successful outcome, not an error.
const emptyNarrative = "No papers relevant to the query were found across the selected sources. " +
	"Consider broadening the query, relaxing domain filters, or adding sources."

// citationPattern matches inline citations: [Key] or [Key1; Key2].
var citationPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)

// synthesisPromptTmpl instructs the model to write a literature synthesis
// citing only the supplied keys.
var synthesisPromptTmpl = template.Must(template.New("synthesis").Parse(`You are a research synthesis writer. Write a concise literature review narrative (3-6 paragraphs) answering the research query using ONLY the papers listed below.

Citation rules, non-negotiable:
- Cite papers inline with their bracketed key, e.g. [{{.ExampleKey}}].
- Multiple citations share one bracket separated by semicolons, e.g. [KeyA; KeyB].
- Use ONLY keys from the list below. Never invent a key. Never cite a paper not listed.
- Every major claim must carry a citation.

Respond with the narrative text only, no preamble and no reference list.

Research query: {{.Query}}

Papers:
{{range .Papers}}[{{.Key}}] {{.Title}} ({{.Year}})
{{.Abstract}}

{{end}}`))

// Engine writes the final synthesis.
type Engine struct {
	Client     model.Client
	MaxRetries int
	Logger     *zap.Logger
}

// Run produces the SynthesisResult for the ranked paper set. A model
// failure or a citation-integrity violation is fatal: a narrative with
// unverifiable citations must never reach the caller.
func (e *Engine) Run(ctx context.Context, query types.ResearchQuery, papers []types.ScoredPaper, summary types.RunSummary) (types.SynthesisResult, error) {
	if len(papers) == 0 {
		return types.SynthesisResult{
			Narrative: emptyNarrative,
			Summary:   summary,
		}, nil
	}

	keys := citationKeys(papers)
	byKey := make(map[string]types.ScoredPaper, len(papers))
	for i, p := range papers {
		byKey[keys[i]] = p
	}

	prompt, err := renderPrompt(query.Text, papers, keys)
	if err != nil {
		return types.SynthesisResult{}, fmt.Errorf("rendering synthesis prompt: %w", err)
	}

	narrative, err := model.CompleteWithRetry(ctx, e.Client, prompt, e.MaxRetries)
	if err != nil {
		return types.SynthesisResult{}, &types.PipelineError{
			Kind:  types.KindModelUnavailable,
			Stage: "synthesis",
			Err:   err,
		}
	}
	narrative = strings.TrimSpace(narrative)

	cited := extractCitationKeys(narrative)
	var unresolved []string
	for _, key := range cited {
		if _, ok := byKey[key]; !ok {
			unresolved = append(unresolved, key)
		}
	}
	if len(unresolved) > 0 {
		return types.SynthesisResult{}, &types.PipelineError{
			Kind:  types.KindModelUnavailable,
			Stage: "synthesis",
			Err:   fmt.Errorf("narrative cites unknown keys %v: citation integrity violated", unresolved),
		}
	}

	var refs []types.Reference
	seen := map[string]bool{}
	for _, key := range cited {
		if seen[key] {
			continue
		}
		seen[key] = true
		p := byKey[key]
		refs = append(refs, types.Reference{
			Key:   key,
			Title: p.Title,
			URL:   p.URL,
			Order: len(refs) + 1,
		})
	}

	return types.SynthesisResult{
		Narrative:  narrative,
		References: refs,
		Papers:     papers,
		Summary:    summary,
	}, nil
}

func renderPrompt(queryText string, papers []types.ScoredPaper, keys []string) (string, error) {
	type promptPaper struct {
		Key      string
		Title    string
		Year     int
		Abstract string
	}
	pp := make([]promptPaper, len(papers))
	for i, p := range papers {
		pp[i] = promptPaper{Key: keys[i], Title: p.Title, Year: p.Year, Abstract: p.Abstract}
	}

	var buf bytes.Buffer
	err := synthesisPromptTmpl.Execute(&buf, struct {
		Query      string
		ExampleKey string
		Papers     []promptPaper
	}{Query: queryText, ExampleKey: keys[0], Papers: pp})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// citationKeys assigns an AuthorYear key to each paper, disambiguating
// collisions with letter suffixes (Smith2020, Smith2020b, Smith2020c).
func citationKeys(papers []types.ScoredPaper) []string {
	keys := make([]string, len(papers))
	used := map[string]int{}

	for i, p := range papers {
		base := fmt.Sprintf("%s%d", surname(p.Authors), p.Year)
		n := used[base]
		used[base] = n + 1
		if n == 0 {
			keys[i] = base
		} else {
			keys[i] = fmt.Sprintf("%s%c", base, 'a'+n)
		}
	}
	return keys
}

// surname extracts the first author's last name with non-alphanumeric
// characters stripped, or Anon when the record carries no authors.
func surname(authors []string) string {
	if len(authors) == 0 {
		return "Anon"
	}
	fields := strings.Fields(authors[0])
	if len(fields) == 0 {
		return "Anon"
	}

	var b strings.Builder
	for _, r := range fields[len(fields)-1] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Anon"
	}
	return b.String()
}

// extractCitationKeys finds all citation keys in text. It handles both
// single citations [Key] and multi-citations [Key1; Key2].
func extractCitationKeys(text string) []string {
	matches := citationPattern.FindAllStringSubmatch(text, -1)
	var keys []string
	for _, m := range matches {
		for _, p := range strings.Split(m[1], ";") {
			key := strings.TrimSpace(p)
			if key != "" && isCitationKey(key) {
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// isCitationKey checks whether a string looks like a citation key
// (AuthorYear format). It rejects Markdown links and other bracket content.
func isCitationKey(s string) bool {
	hasLetter := false
	hasDigit := false
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			hasLetter = true
		case c >= '0' && c <= '9':
			hasDigit = true
		case c == '-', c == '_':
			// allowed
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}
