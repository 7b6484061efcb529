// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceReport summarizes one adapter's participation in a run. Surfaced so
// callers can see which sources contributed and which failed.
type SourceReport struct {
	// Source is the adapter id.
	Source string `json:"source" yaml:"source"`

	// QueriesIssued counts candidate queries dispatched to this source.
	QueriesIssued int `json:"queries_issued" yaml:"queries_issued"`

	// Succeeded counts fetch calls that returned records.
	Succeeded int `json:"succeeded" yaml:"succeeded"`

	// Failed counts fetch calls that errored or timed out.
	Failed int `json:"failed" yaml:"failed"`

	// Papers counts raw records returned before dedup.
	Papers int `json:"papers" yaml:"papers"`

	// Errors holds one message per failed call, for transparency.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// RunSummary carries per-stage counters for one pipeline run. Absorbed
// per-record and per-source failures land here rather than aborting the run.
type RunSummary struct {
	TotalFetched     int `json:"total_fetched" yaml:"total_fetched"`
	Duplicates       int `json:"duplicates" yaml:"duplicates"`
	Classified       int `json:"classified" yaml:"classified"`
	ExcludedByDomain int `json:"excluded_by_domain" yaml:"excluded_by_domain"`
	Scored           int `json:"scored" yaml:"scored"`
	ScoringFailures  int `json:"scoring_failures" yaml:"scoring_failures"`
	BelowCutoff      int `json:"below_cutoff" yaml:"below_cutoff"`
	FinalCount       int `json:"final_count" yaml:"final_count"`

	// SourcesUsed lists adapters that contributed at least one record.
	SourcesUsed []string `json:"sources_used" yaml:"sources_used"`

	// SourceReports holds per-adapter detail.
	SourceReports []SourceReport `json:"source_reports,omitempty" yaml:"source_reports,omitempty"`
}

// Reference is one entry in a synthesis reference list.
type Reference struct {
	// Key is the inline citation label used in the narrative.
	Key string `json:"key" yaml:"key"`

	Title string `json:"title" yaml:"title"`
	URL   string `json:"url,omitempty" yaml:"url,omitempty"`

	// Order is the 1-based first-appearance position of the key in the
	// narrative.
	Order int `json:"order" yaml:"order"`
}

// SynthesisResult is the final output of a completed run: the narrative, the
// reference list in first-appearance order, and the run summary. Every
// inline citation in Narrative resolves to exactly one Reference and every
// Reference is cited at least once.
type SynthesisResult struct {
	Narrative  string      `json:"narrative" yaml:"narrative"`
	References []Reference `json:"references" yaml:"references"`

	// Papers is the ranked paper set the narrative draws from.
	Papers []ScoredPaper `json:"papers" yaml:"papers"`

	Summary RunSummary `json:"summary" yaml:"summary"`
}
