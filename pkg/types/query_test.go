// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"testing"
)

func TestResearchQueryValidate(t *testing.T) {
	tests := []struct {
		name      string
		query     ResearchQuery
		wantField string // empty means valid
	}{
		{
			name:  "minimal valid query",
			query: ResearchQuery{Text: "protein folding", MaxResults: 3},
		},
		{
			name: "full valid query",
			query: ResearchQuery{
				Text:           "catalyst design",
				Sources:        []string{"arxiv", "openalex"},
				IncludeDomains: []Domain{DomainChemistry},
				ExcludeDomains: []Domain{DomainEconomics},
				MaxResults:     10,
			},
		},
		{
			name:      "empty text",
			query:     ResearchQuery{Text: "   ", MaxResults: 5},
			wantField: "text",
		},
		{
			name:      "negative max results",
			query:     ResearchQuery{Text: "q", MaxResults: -1},
			wantField: "max_results",
		},
		{
			name:      "unknown source",
			query:     ResearchQuery{Text: "q", MaxResults: 5, Sources: []string{"scholar"}},
			wantField: "sources",
		},
		{
			name:      "unknown include domain",
			query:     ResearchQuery{Text: "q", MaxResults: 5, IncludeDomains: []Domain{"alchemy"}},
			wantField: "include_domains",
		},
		{
			name:      "unknown exclude domain",
			query:     ResearchQuery{Text: "q", MaxResults: 5, ExcludeDomains: []Domain{"alchemy"}},
			wantField: "exclude_domains",
		},
		{
			name: "domain both included and excluded",
			query: ResearchQuery{
				Text:           "q",
				MaxResults:     5,
				IncludeDomains: []Domain{DomainPhysics},
				ExcludeDomains: []Domain{DomainPhysics},
			},
			wantField: "include_domains",
		},
		{
			name:      "unknown depth preset",
			query:     ResearchQuery{Text: "q", Depth: "extreme"},
			wantField: "depth",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestEffectiveMaxResults(t *testing.T) {
	tests := []struct {
		name  string
		query ResearchQuery
		want  int
	}{
		{"explicit wins", ResearchQuery{MaxResults: 7, Depth: DepthHigh}, 7},
		{"low preset", ResearchQuery{Depth: DepthLow}, 5},
		{"high preset", ResearchQuery{Depth: DepthHigh}, 20},
		{"default is medium", ResearchQuery{}, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.EffectiveMaxResults(); got != tt.want {
				t.Errorf("EffectiveMaxResults() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEffectiveSources(t *testing.T) {
	q := ResearchQuery{}
	if got := q.EffectiveSources(); len(got) != len(KnownSources) {
		t.Errorf("default sources = %v, want all known", got)
	}
	q.Sources = []string{"arxiv"}
	if got := q.EffectiveSources(); len(got) != 1 || got[0] != "arxiv" {
		t.Errorf("sources = %v, want [arxiv]", got)
	}
}
