// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litreview/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ExpansionConfig holds settings for the terminology expansion stage.
type ExpansionConfig struct {
	// MaxTermsPerCategory bounds each expansion category (default 10).
	MaxTermsPerCategory int `json:"max_terms_per_category" yaml:"max_terms_per_category"`

	// DisableAI skips the model call and uses only the static tables.
	DisableAI bool `json:"disable_ai" yaml:"disable_ai"`
}

// QueryBuildConfig holds settings for candidate query construction.
type QueryBuildConfig struct {
	// MaxPerSource bounds candidate queries per source (default 4).
	MaxPerSource int `json:"max_per_source" yaml:"max_per_source"`
}

// FetchConfig holds settings for the multi-source fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Concurrency bounds simultaneous adapter calls (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// CallTimeout bounds each individual adapter call (default 15s).
	CallTimeout time.Duration `json:"call_timeout" yaml:"call_timeout"`

	// PerQueryLimit is the record cap requested from each adapter call
	// (default 20).
	PerQueryLimit int `json:"per_query_limit" yaml:"per_query_limit"`
}

// ClassifyConfig holds settings for the domain classification stage.
type ClassifyConfig struct {
	// RuleConfidenceThreshold is the rule-tier confidence below which the
	// AI tier is consulted (default 0.5).
	RuleConfidenceThreshold float64 `json:"rule_confidence_threshold" yaml:"rule_confidence_threshold"`

	// DisableAI skips the AI fallback tier.
	DisableAI bool `json:"disable_ai" yaml:"disable_ai"`
}

// RelevanceConfig holds settings for the relevance scoring stage.
type RelevanceConfig struct {
	// Cutoff excludes papers scoring below it (default 0.5).
	Cutoff float64 `json:"cutoff" yaml:"cutoff"`

	// Concurrency bounds simultaneous scoring calls (default 3).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// JobsConfig holds settings for the job orchestrator.
type JobsConfig struct {
	// TTL is how long terminal jobs stay in the registry (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// Timeout is the per-job wall-clock ceiling (default 10m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// ArchivePath enables the completed-job SQLite archive when non-empty.
	// The live registry is always in-memory; the archive only records
	// terminal jobs for later inspection.
	ArchivePath string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	AI        AIConfig         `json:"ai" yaml:"ai"`
	Expansion ExpansionConfig  `json:"expansion" yaml:"expansion"`
	Queries   QueryBuildConfig `json:"queries" yaml:"queries"`
	Fetch     FetchConfig      `json:"fetch" yaml:"fetch"`
	Classify  ClassifyConfig   `json:"classify" yaml:"classify"`
	Relevance RelevanceConfig  `json:"relevance" yaml:"relevance"`
	Jobs      JobsConfig       `json:"jobs" yaml:"jobs"`
}

// DefaultPipelineConfig returns the configuration defaults used when a field
// is unset.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AI: AIConfig{
			MaxRetries: 3,
		},
		Expansion: ExpansionConfig{
			MaxTermsPerCategory: 10,
		},
		Queries: QueryBuildConfig{
			MaxPerSource: 4,
		},
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "litreview/0.1",
			},
			Concurrency:   4,
			CallTimeout:   15 * time.Second,
			PerQueryLimit: 20,
		},
		Classify: ClassifyConfig{
			RuleConfidenceThreshold: 0.5,
		},
		Relevance: RelevanceConfig{
			Cutoff:      0.5,
			Concurrency: 3,
		},
		Jobs: JobsConfig{
			TTL:     time.Hour,
			Timeout: 10 * time.Minute,
		},
	}
}
