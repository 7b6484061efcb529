// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package querybuild

import (
	"strings"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func bySource(qs []types.CandidateQuery) map[string][]types.CandidateQuery {
	out := map[string][]types.CandidateQuery{}
	for _, q := range qs {
		out[q.Source] = append(out[q.Source], q)
	}
	return out
}

func TestBuildOriginalTextAlwaysFirst(t *testing.T) {
	b := &Builder{}
	q := types.ResearchQuery{Text: "protein folding", Sources: []string{"arxiv", "pubmed"}}
	terms := types.ExpandedTerminology{
		AlternativePhrasings: []string{"protein structure prediction"},
	}

	got := bySource(b.Build(q, terms))

	for _, source := range []string{"arxiv", "pubmed"} {
		qs := got[source]
		if len(qs) == 0 {
			t.Fatalf("no queries for %s", source)
		}
		if qs[0].Text != "protein folding" || qs[0].Strategy != types.StrategyBroad {
			t.Errorf("%s first query = %+v, want broad original text", source, qs[0])
		}
	}
}

func TestBuildCapsPerSource(t *testing.T) {
	b := &Builder{Config: types.QueryBuildConfig{MaxPerSource: 4}}
	q := types.ResearchQuery{Text: "graph neural networks", Sources: []string{"arxiv"}}
	terms := types.ExpandedTerminology{
		Primary:              []string{"graph neural networks"},
		AlternativePhrasings: []string{"GNN", "graph networks", "geometric deep learning"},
		Narrower:             []string{"message passing", "graph attention"},
		Adjacent:             []string{"network science", "relational learning"},
	}

	got := b.Build(q, terms)
	if len(got) > 4 {
		t.Errorf("got %d queries for one source, want <= 4", len(got))
	}
}

func TestBuildDomainQualified(t *testing.T) {
	b := &Builder{}
	q := types.ResearchQuery{
		Text:           "catalyst design",
		Sources:        []string{"openalex"},
		IncludeDomains: []types.Domain{types.DomainChemistry},
	}

	got := b.Build(q, types.ExpandedTerminology{})

	var found bool
	for _, cq := range got {
		if cq.Strategy == types.StrategyDomainQualified {
			found = true
			if !strings.Contains(cq.Text, "Chemistry") {
				t.Errorf("domain-qualified query %q missing domain name", cq.Text)
			}
		}
	}
	if !found {
		t.Error("no domain-qualified query generated despite include domains")
	}
}

func TestBuildDomainQualifiedSurvivesFullExpansion(t *testing.T) {
	// Even with plenty of expansion terms, the domain-qualified variant must
	// fit under the cap when include domains are set.
	b := &Builder{Config: types.QueryBuildConfig{MaxPerSource: 4}}
	q := types.ResearchQuery{
		Text:           "catalyst design",
		Sources:        []string{"arxiv"},
		IncludeDomains: []types.Domain{types.DomainChemistry},
	}
	terms := types.ExpandedTerminology{
		Primary:              []string{"catalyst design"},
		AlternativePhrasings: []string{"catalysis", "catalytic material", "catalytic activity"},
		Narrower:             []string{"heterogeneous catalysis", "electrochemistry"},
	}

	got := b.Build(q, terms)
	if len(got) != 4 {
		t.Fatalf("got %d queries, want 4", len(got))
	}

	strategies := map[types.QueryStrategy]int{}
	for _, cq := range got {
		strategies[cq.Strategy]++
	}
	if strategies[types.StrategyBroad] != 1 {
		t.Errorf("broad count = %d, want 1", strategies[types.StrategyBroad])
	}
	if strategies[types.StrategyDomainQualified] != 1 {
		t.Errorf("domain-qualified count = %d, want 1", strategies[types.StrategyDomainQualified])
	}
}

func TestBuildDedupesCaseInsensitively(t *testing.T) {
	b := &Builder{}
	q := types.ResearchQuery{Text: "Deep Learning", Sources: []string{"arxiv"}}
	terms := types.ExpandedTerminology{
		Primary:              []string{"Deep Learning"},
		AlternativePhrasings: []string{"deep learning"}, // duplicate of the query itself
	}

	got := b.Build(q, terms)

	seen := map[string]bool{}
	for _, cq := range got {
		key := strings.ToLower(cq.Text)
		if seen[key] {
			t.Errorf("duplicate candidate query %q", cq.Text)
		}
		seen[key] = true
	}
}

func TestBuildEmptyExpansionStillSearches(t *testing.T) {
	b := &Builder{}
	q := types.ResearchQuery{Text: "obscure topic nobody studies", Sources: []string{"arxiv", "openalex", "pubmed"}}

	got := b.Build(q, types.ExpandedTerminology{})

	if len(got) != 3 {
		t.Fatalf("got %d queries, want one broad query per source", len(got))
	}
	for _, cq := range got {
		if cq.Strategy != types.StrategyBroad {
			t.Errorf("unexpected strategy %s", cq.Strategy)
		}
	}
}
