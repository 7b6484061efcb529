// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExpandedTerminology holds domain-aware related terms generated for a query.
// Category lists are bounded and ordered by rank.
type ExpandedTerminology struct {
	// Primary are the key concepts extracted from the query itself.
	Primary []string `json:"primary" yaml:"primary"`

	// Adjacent are related concepts in the same field.
	Adjacent []string `json:"adjacent" yaml:"adjacent"`

	// Broader are higher-level categories encompassing the topic.
	Broader []string `json:"broader" yaml:"broader"`

	// Narrower are more specific subtopics.
	Narrower []string `json:"narrower" yaml:"narrower"`

	// AlternativePhrasings are synonyms and alternate expressions.
	AlternativePhrasings []string `json:"alternative_phrasings" yaml:"alternative_phrasings"`

	// RelatedConcepts are methods and cross-disciplinary terms.
	RelatedConcepts []string `json:"related_concepts" yaml:"related_concepts"`

	// DomainContext records the include-domains that constrained the expansion.
	DomainContext []Domain `json:"domain_context,omitempty" yaml:"domain_context,omitempty"`
}

// IsEmpty reports whether the expansion produced no terms beyond the query.
func (e ExpandedTerminology) IsEmpty() bool {
	return len(e.Adjacent) == 0 && len(e.Broader) == 0 && len(e.Narrower) == 0 &&
		len(e.AlternativePhrasings) == 0 && len(e.RelatedConcepts) == 0
}

// QueryStrategy labels how a candidate query was constructed.
type QueryStrategy string

const (
	StrategyBroad           QueryStrategy = "broad"
	StrategyTermExpansion   QueryStrategy = "term-expansion"
	StrategyDomainQualified QueryStrategy = "domain-qualified"
)

// CandidateQuery is one search string targeted at one source adapter.
type CandidateQuery struct {
	Text     string        `json:"text" yaml:"text"`
	Source   string        `json:"source" yaml:"source"`
	Strategy QueryStrategy `json:"strategy" yaml:"strategy"`
}

// PaperRecord is one scholarly record as normalized by a source adapter.
// Once the deduplicator merges it the record is immutable downstream.
type PaperRecord struct {
	// DedupKey is the canonical identity string assigned by the deduplicator.
	// Empty until dedup runs.
	DedupKey string `json:"dedup_key,omitempty" yaml:"dedup_key,omitempty"`

	// Identifier is the source-native id when available (arXiv ID, DOI, PMID).
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`

	// Source identifies the adapter that found this record.
	Source string `json:"source" yaml:"source"`

	// MergedFrom lists every source that contributed to this record after
	// dedup. Always contains Source.
	MergedFrom []string `json:"merged_from,omitempty" yaml:"merged_from,omitempty"`

	Title    string   `json:"title" yaml:"title"`
	Abstract string   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Authors  []string `json:"authors,omitempty" yaml:"authors,omitempty"`
	Year     int      `json:"year,omitempty" yaml:"year,omitempty"`
	URL      string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// ClassifiedPaper is a PaperRecord with its domain tags.
type ClassifiedPaper struct {
	PaperRecord `yaml:",inline"`

	// Domains are the assigned tags, ordered by confidence. Never empty:
	// unmatched records carry DomainGeneral.
	Domains []Domain `json:"domains" yaml:"domains"`

	// Confidence maps each assigned tag to a value in [0,1].
	Confidence map[Domain]float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// ScoredPaper is a ClassifiedPaper with its relevance assessment.
type ScoredPaper struct {
	ClassifiedPaper `yaml:",inline"`

	// Score is the model-assigned relevance to the query, in [0,1].
	Score float64 `json:"score" yaml:"score"`

	// Reasoning is the model's short justification for the score.
	Reasoning string `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`

	// Included reports whether the paper survived the relevance cutoff.
	Included bool `json:"included" yaml:"included"`
}
