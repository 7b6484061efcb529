// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

// titleScoreClient returns a canned score per paper title embedded in the
// prompt. Papers listed in fail error out.
type titleScoreClient struct {
	scores map[string]float64
	fail   map[string]bool

	mu       sync.Mutex
	inFlight int32
	maxSeen  int32
}

func (c *titleScoreClient) Complete(_ context.Context, prompt string) (string, error) {
	cur := atomic.AddInt32(&c.inFlight, 1)
	defer atomic.AddInt32(&c.inFlight, -1)

	c.mu.Lock()
	if cur > c.maxSeen {
		c.maxSeen = cur
	}
	c.mu.Unlock()

	for title, score := range c.scores {
		if strings.Contains(prompt, "Paper title: "+title+"\n") {
			return fmt.Sprintf(`{"score": %f, "reasoning": "canned"}`, score), nil
		}
	}
	for title := range c.fail {
		if strings.Contains(prompt, "Paper title: "+title+"\n") {
			return "", fmt.Errorf("scoring backend down")
		}
	}
	return `{"score": 0.0, "reasoning": "unknown"}`, nil
}

func classified(title string, year int, domains ...types.Domain) types.ClassifiedPaper {
	return types.ClassifiedPaper{
		PaperRecord: types.PaperRecord{Title: title, Year: year, Source: "arxiv"},
		Domains:     domains,
	}
}

func TestRunCutoffAndOrdering(t *testing.T) {
	client := &titleScoreClient{scores: map[string]float64{
		"High":   0.9,
		"Medium": 0.6,
		"Low":    0.3,
	}}

	f := &Filter{Client: client, Config: types.RelevanceConfig{Cutoff: 0.5}}
	out, err := f.Run(context.Background(), types.ResearchQuery{Text: "q", MaxResults: 10}, []types.ClassifiedPaper{
		classified("Low", 2020, types.DomainPhysics),
		classified("High", 2019, types.DomainPhysics),
		classified("Medium", 2021, types.DomainPhysics),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Scored != 3 || out.BelowCutoff != 1 {
		t.Errorf("Scored = %d, BelowCutoff = %d", out.Scored, out.BelowCutoff)
	}
	if len(out.Papers) != 2 {
		t.Fatalf("got %d papers, want 2", len(out.Papers))
	}
	if out.Papers[0].Title != "High" || out.Papers[1].Title != "Medium" {
		t.Errorf("order = [%s %s], want [High Medium]", out.Papers[0].Title, out.Papers[1].Title)
	}
	for _, p := range out.Papers {
		if !p.Included {
			t.Errorf("%s not marked Included", p.Title)
		}
	}
}

func TestRunTieBreaks(t *testing.T) {
	client := &titleScoreClient{scores: map[string]float64{
		"DomainMatch":   0.7,
		"NoDomainMatch": 0.7,
		"Newer":         0.7,
		"Older":         0.7,
	}}

	f := &Filter{Client: client, Config: types.RelevanceConfig{Concurrency: 1}}
	query := types.ResearchQuery{
		Text:           "q",
		MaxResults:     10,
		IncludeDomains: []types.Domain{types.DomainMedicine},
	}

	out, err := f.Run(context.Background(), query, []types.ClassifiedPaper{
		classified("NoDomainMatch", 2024, types.DomainBiology, types.DomainMedicine),
		classified("DomainMatch", 2020, types.DomainMedicine),
		classified("Older", 2018, types.DomainBiology),
		classified("Newer", 2023, types.DomainBiology),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// NoDomainMatch and DomainMatch both overlap medicine (1 each), so year
	// decides between them; the two biology papers rank after, newer first.
	titles := make([]string, len(out.Papers))
	for i, p := range out.Papers {
		titles[i] = p.Title
	}
	want := []string{"NoDomainMatch", "DomainMatch", "Newer", "Older"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("order = %v, want %v", titles, want)
		}
	}
}

func TestRunFailClosed(t *testing.T) {
	client := &titleScoreClient{
		scores: map[string]float64{"Good": 0.8},
		fail:   map[string]bool{"Broken": true},
	}

	f := &Filter{Client: client}
	out, err := f.Run(context.Background(), types.ResearchQuery{Text: "q", MaxResults: 10}, []types.ClassifiedPaper{
		classified("Good", 2020),
		classified("Broken", 2021),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.ScoringFailures != 1 {
		t.Errorf("ScoringFailures = %d, want 1", out.ScoringFailures)
	}
	if len(out.Papers) != 1 || out.Papers[0].Title != "Good" {
		t.Errorf("papers = %v, want only the scored one", out.Papers)
	}
}

func TestRunTruncatesToMaxResults(t *testing.T) {
	client := &titleScoreClient{scores: map[string]float64{
		"A": 0.9, "B": 0.8, "C": 0.7, "D": 0.6,
	}}

	f := &Filter{Client: client}
	out, err := f.Run(context.Background(), types.ResearchQuery{Text: "q", MaxResults: 2}, []types.ClassifiedPaper{
		classified("A", 2020), classified("B", 2020),
		classified("C", 2020), classified("D", 2020),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Papers) != 2 {
		t.Fatalf("got %d papers, want 2", len(out.Papers))
	}
	if out.Papers[0].Title != "A" || out.Papers[1].Title != "B" {
		t.Errorf("papers = [%s %s]", out.Papers[0].Title, out.Papers[1].Title)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	client := &titleScoreClient{scores: map[string]float64{}}

	papers := make([]types.ClassifiedPaper, 12)
	for i := range papers {
		papers[i] = classified(fmt.Sprintf("P%d", i), 2020)
	}

	f := &Filter{Client: client, Config: types.RelevanceConfig{Concurrency: 2}}
	if _, err := f.Run(context.Background(), types.ResearchQuery{Text: "q", MaxResults: 20}, papers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if client.maxSeen > 2 {
		t.Errorf("max concurrent scoring calls = %d, want <= 2", client.maxSeen)
	}
}
