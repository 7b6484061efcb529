// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dedup

import (
	"reflect"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestDeduplicateByIdentifier(t *testing.T) {
	records := []types.PaperRecord{
		{Identifier: "10.1234/abc", Source: "openalex", Title: "Paper One"},
		{Identifier: "10.1234/ABC", Source: "pubmed", Title: "Paper One"},
		{Identifier: "10.9999/zzz", Source: "openalex", Title: "Paper Two"},
	}

	out := Deduplicate(records)

	if len(out.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(out.Records))
	}
	if out.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", out.Duplicates)
	}
	if out.Records[0].DedupKey != "id:10.1234/abc" {
		t.Errorf("DedupKey = %q", out.Records[0].DedupKey)
	}
}

func TestDeduplicateCrossSourceTitleMatch(t *testing.T) {
	// Same paper found on arXiv (arXiv ID) and OpenAlex (DOI): identifiers
	// differ, so the title + first-author key must unify them.
	records := []types.PaperRecord{
		{
			Identifier: "2301.07041",
			Source:     "arxiv",
			Title:      "Attention Is All You Need",
			Authors:    []string{"Ashish Vaswani"},
			Abstract:   "short",
		},
		{
			Identifier: "10.5555/3295222",
			Source:     "openalex",
			Title:      "Attention is all you need.",
			Authors:    []string{"Ashish Vaswani", "Noam Shazeer"},
			Abstract:   "The dominant sequence transduction models are based on recurrence.",
			Year:       2017,
		},
	}

	out := Deduplicate(records)

	if len(out.Records) != 1 {
		t.Fatalf("got %d records, want 1 merged record", len(out.Records))
	}
	r := out.Records[0]

	if !reflect.DeepEqual(r.MergedFrom, []string{"arxiv", "openalex"}) {
		t.Errorf("MergedFrom = %v", r.MergedFrom)
	}
	// Merge prefers the more complete value, not the first one seen.
	if r.Abstract != "The dominant sequence transduction models are based on recurrence." {
		t.Errorf("Abstract = %q, want the longer one", r.Abstract)
	}
	if len(r.Authors) != 2 {
		t.Errorf("Authors = %v, want the fuller list", r.Authors)
	}
	if r.Year != 2017 {
		t.Errorf("Year = %d, want filled from the duplicate", r.Year)
	}
	// First occurrence keeps its identity.
	if r.Identifier != "2301.07041" {
		t.Errorf("Identifier = %q", r.Identifier)
	}
}

func TestDeduplicatePreservesOrder(t *testing.T) {
	records := []types.PaperRecord{
		{Identifier: "a", Source: "arxiv", Title: "First"},
		{Identifier: "b", Source: "arxiv", Title: "Second"},
		{Identifier: "a", Source: "pubmed", Title: "First"},
		{Identifier: "c", Source: "arxiv", Title: "Third"},
	}

	out := Deduplicate(records)

	titles := make([]string, len(out.Records))
	for i, r := range out.Records {
		titles[i] = r.Title
	}
	if !reflect.DeepEqual(titles, []string{"First", "Second", "Third"}) {
		t.Errorf("titles = %v", titles)
	}
}

func TestDeduplicateSameTitleDifferentAuthors(t *testing.T) {
	// Two distinct papers can share a title; the first-author surname keeps
	// them apart.
	records := []types.PaperRecord{
		{Source: "arxiv", Title: "A Survey", Authors: []string{"Alice Smith"}},
		{Source: "arxiv", Title: "A Survey", Authors: []string{"Bob Jones"}},
	}

	out := Deduplicate(records)

	if len(out.Records) != 2 {
		t.Errorf("got %d records, want 2 distinct papers", len(out.Records))
	}
}

func TestDeduplicateSingletonMergedFrom(t *testing.T) {
	out := Deduplicate([]types.PaperRecord{
		{Identifier: "x", Source: "pubmed", Title: "Solo"},
	})

	if !reflect.DeepEqual(out.Records[0].MergedFrom, []string{"pubmed"}) {
		t.Errorf("MergedFrom = %v, want the record's own source", out.Records[0].MergedFrom)
	}
}

// A merge that fills in a missing Identifier does not register the new
// id: key, so a later record carrying only that identifier starts its own
// entry. Pins the documented recall gap; distinct DedupKeys still hold.
func TestDeduplicateLateIdentifierNotIndexed(t *testing.T) {
	records := []types.PaperRecord{
		{Source: "arxiv", Title: "Scaling Laws for Language Models", Authors: []string{"Jared Kaplan"}},
		{Identifier: "10.5555/scaling", Source: "openalex", Title: "Scaling Laws for Language Models", Authors: []string{"Jared Kaplan"}},
		{Identifier: "10.5555/scaling", Source: "pubmed", Title: "Scaling laws (reprint)"},
	}

	out := Deduplicate(records)

	if len(out.Records) != 2 {
		t.Fatalf("got %d records, want 2", len(out.Records))
	}
	if out.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", out.Duplicates)
	}
	if out.Records[0].DedupKey == out.Records[1].DedupKey {
		t.Errorf("records share dedup key %q", out.Records[0].DedupKey)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Attention Is All You Need", "attention is all you need"},
		{"Attention  is\tall you need!", "attention is all you need"},
		{"BERT: Pre-training of Deep Bidirectional Transformers", "bert pretraining of deep bidirectional transformers"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
