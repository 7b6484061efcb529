// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// KnownSources lists the source adapter ids the pipeline accepts.
var KnownSources = []string{"arxiv", "openalex", "pubmed"}

// Depth is a preset mapping to a max-results cap. An explicit MaxResults on
// the query overrides the preset.
type Depth string

const (
	DepthLow    Depth = "low"
	DepthMedium Depth = "medium"
	DepthHigh   Depth = "high"
)

// depthCaps maps each preset to its max-results cap.
var depthCaps = map[Depth]int{
	DepthLow:    5,
	DepthMedium: 10,
	DepthHigh:   20,
}

// Cap returns the max-results cap for the preset (0 for unknown presets).
func (d Depth) Cap() int { return depthCaps[d] }

// ResearchQuery is the validated input to a pipeline run.
type ResearchQuery struct {
	// Text is the natural-language research question.
	Text string `json:"text" yaml:"text"`

	// Sources selects which adapters to query. Empty means all known sources.
	Sources []string `json:"sources,omitempty" yaml:"sources,omitempty"`

	// IncludeDomains keeps only papers tagged with at least one member.
	IncludeDomains []Domain `json:"include_domains,omitempty" yaml:"include_domains,omitempty"`

	// ExcludeDomains drops papers tagged with any member, regardless of
	// IncludeDomains.
	ExcludeDomains []Domain `json:"exclude_domains,omitempty" yaml:"exclude_domains,omitempty"`

	// MaxResults caps the final ranked paper set. When 0, the Depth preset
	// supplies the cap.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Model is the AI model identifier used for all model calls in the run.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// Depth is the low/medium/high preset (default medium).
	Depth Depth `json:"depth,omitempty" yaml:"depth,omitempty"`
}

// EffectiveMaxResults resolves MaxResults against the Depth preset.
func (q ResearchQuery) EffectiveMaxResults() int {
	if q.MaxResults > 0 {
		return q.MaxResults
	}
	if cap := q.Depth.Cap(); cap > 0 {
		return cap
	}
	return DepthMedium.Cap()
}

// EffectiveSources resolves the source selection, defaulting to all known
// sources.
func (q ResearchQuery) EffectiveSources() []string {
	if len(q.Sources) > 0 {
		return q.Sources
	}
	return KnownSources
}

// Validate checks the query against the fixed enumerations. It returns a
// *ValidationError describing the first problem found.
func (q ResearchQuery) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if q.MaxResults < 0 {
		return &ValidationError{Field: "max_results", Reason: fmt.Sprintf("must be positive, got %d", q.MaxResults)}
	}
	if q.MaxResults == 0 && q.Depth != "" {
		if _, ok := depthCaps[q.Depth]; !ok {
			return &ValidationError{Field: "depth", Reason: fmt.Sprintf("unknown preset %q", q.Depth)}
		}
	}

	for _, s := range q.Sources {
		if !knownSource(s) {
			return &ValidationError{Field: "sources", Reason: fmt.Sprintf("unknown source %q", s)}
		}
	}

	for _, d := range q.IncludeDomains {
		if !d.Valid() {
			return &ValidationError{Field: "include_domains", Reason: fmt.Sprintf("unknown domain %q", d)}
		}
	}
	excluded := NewDomainSet(q.ExcludeDomains)
	for _, d := range q.ExcludeDomains {
		if !d.Valid() {
			return &ValidationError{Field: "exclude_domains", Reason: fmt.Sprintf("unknown domain %q", d)}
		}
	}
	for _, d := range q.IncludeDomains {
		if excluded[d] {
			return &ValidationError{Field: "include_domains", Reason: fmt.Sprintf("domain %q both included and excluded", d)}
		}
	}

	return nil
}

func knownSource(s string) bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}
