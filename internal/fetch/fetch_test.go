// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pdiddy/litreview/pkg/types"
)

// fakeAdapter returns canned records per query and records calls.
type fakeAdapter struct {
	name    string
	records map[string][]types.PaperRecord
	err     error

	mu    sync.Mutex
	calls []string
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(_ context.Context, query string, _ int) ([]types.PaperRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.records[query], nil
}

func record(source, id, title string) types.PaperRecord {
	return types.PaperRecord{Source: source, Identifier: id, Title: title}
}

func TestFetcherFanOut(t *testing.T) {
	arxiv := &fakeAdapter{
		name: "arxiv",
		records: map[string][]types.PaperRecord{
			"q1": {record("arxiv", "2301.00001", "Paper A")},
			"q2": {record("arxiv", "2301.00002", "Paper B")},
		},
	}
	pubmed := &fakeAdapter{
		name: "pubmed",
		records: map[string][]types.PaperRecord{
			"q1": {record("pubmed", "111", "Paper C"), record("pubmed", "222", "Paper D")},
		},
	}

	f := &Fetcher{Adapters: []SourceAdapter{arxiv, pubmed}}
	out, err := f.Fetch(context.Background(), []types.CandidateQuery{
		{Text: "q1", Source: "arxiv"},
		{Text: "q2", Source: "arxiv"},
		{Text: "q1", Source: "pubmed"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Records) != 4 {
		t.Errorf("got %d records, want 4", len(out.Records))
	}
	// Record order is deterministic: query order, then adapter order.
	wantTitles := []string{"Paper A", "Paper B", "Paper C", "Paper D"}
	for i, want := range wantTitles {
		if out.Records[i].Title != want {
			t.Errorf("record[%d].Title = %q, want %q", i, out.Records[i].Title, want)
		}
	}

	if len(out.Reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(out.Reports))
	}
	if out.Reports[0].Source != "arxiv" || out.Reports[0].QueriesIssued != 2 || out.Reports[0].Succeeded != 2 {
		t.Errorf("arxiv report = %+v", out.Reports[0])
	}
	if out.Reports[1].Source != "pubmed" || out.Reports[1].Papers != 2 {
		t.Errorf("pubmed report = %+v", out.Reports[1])
	}
}

func TestFetcherAbsorbsPartialFailure(t *testing.T) {
	good := &fakeAdapter{
		name:    "arxiv",
		records: map[string][]types.PaperRecord{"q": {record("arxiv", "1", "Survivor")}},
	}
	bad := &fakeAdapter{name: "openalex", err: fmt.Errorf("503 service unavailable")}

	f := &Fetcher{Adapters: []SourceAdapter{good, bad}}
	out, err := f.Fetch(context.Background(), []types.CandidateQuery{
		{Text: "q", Source: "arxiv"},
		{Text: "q", Source: "openalex"},
	})
	if err != nil {
		t.Fatalf("partial failure must not abort the run: %v", err)
	}

	if len(out.Records) != 1 || out.Records[0].Title != "Survivor" {
		t.Errorf("records = %+v", out.Records)
	}

	for _, rep := range out.Reports {
		if rep.Source == "openalex" {
			if rep.Failed != 1 || len(rep.Errors) != 1 {
				t.Errorf("openalex report = %+v", rep)
			}
		}
	}
}

func TestFetcherAllSourcesFailed(t *testing.T) {
	bad1 := &fakeAdapter{name: "arxiv", err: fmt.Errorf("down")}
	bad2 := &fakeAdapter{name: "pubmed", err: fmt.Errorf("down")}

	f := &Fetcher{Adapters: []SourceAdapter{bad1, bad2}}
	out, err := f.Fetch(context.Background(), []types.CandidateQuery{
		{Text: "q", Source: "arxiv"},
		{Text: "q", Source: "pubmed"},
	})
	if err == nil {
		t.Fatal("expected error when every source fails")
	}

	var perr *types.PipelineError
	if !errors.As(err, &perr) || perr.Kind != types.KindSourceUnavailable {
		t.Errorf("error = %v, want SourceUnavailable pipeline error", err)
	}

	// Reports still describe what was attempted.
	if len(out.Reports) != 2 {
		t.Errorf("got %d reports, want 2", len(out.Reports))
	}
}

func TestFetcherUnknownSource(t *testing.T) {
	arxiv := &fakeAdapter{
		name:    "arxiv",
		records: map[string][]types.PaperRecord{"q": {record("arxiv", "1", "A")}},
	}

	f := &Fetcher{Adapters: []SourceAdapter{arxiv}}
	out, err := f.Fetch(context.Background(), []types.CandidateQuery{
		{Text: "q", Source: "arxiv"},
		{Text: "q", Source: "scopus"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, rep := range out.Reports {
		if rep.Source == "scopus" && rep.Failed != 1 {
			t.Errorf("scopus report = %+v, want 1 failure", rep)
		}
	}
}

func TestFetcherEmptyResultIsSuccess(t *testing.T) {
	empty := &fakeAdapter{name: "arxiv", records: map[string][]types.PaperRecord{}}

	f := &Fetcher{Adapters: []SourceAdapter{empty}}
	out, err := f.Fetch(context.Background(), []types.CandidateQuery{{Text: "q", Source: "arxiv"}})
	if err != nil {
		t.Fatalf("zero results is not a failure: %v", err)
	}
	if len(out.Records) != 0 {
		t.Errorf("records = %+v", out.Records)
	}
	if out.Reports[0].Succeeded != 1 {
		t.Errorf("report = %+v", out.Reports[0])
	}
}
