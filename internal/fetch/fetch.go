// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves scholarly records from external literature APIs.
// Each API sits behind a SourceAdapter; the Fetcher fans candidate queries
// out across adapters with bounded concurrency and absorbs per-call
// failures so one flaky source never sinks a run.
package fetch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/litreview/pkg/types"
)

// SourceAdapter searches a single literature API. Implementations must be
// safe for concurrent use and honor ctx cancellation.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]types.PaperRecord, error)
}

// Output holds the merged raw records and per-source accounting.
type Output struct {
	Records []types.PaperRecord
	Reports []types.SourceReport
}

// Fetcher fans out candidate queries to their source adapters.
type Fetcher struct {
	Adapters []SourceAdapter
	Config   types.FetchConfig
	Logger   *zap.Logger
}

// Fetch issues every candidate query against its source adapter. Calls run
// concurrently under the configured bound, each with its own timeout. A
// failed call is recorded in that source's report and the run continues;
// Fetch itself fails only when every call failed. Record order is
// deterministic: query order, then adapter result order.
func (f *Fetcher) Fetch(ctx context.Context, queries []types.CandidateQuery) (Output, error) {
	concurrency := f.Config.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	callTimeout := f.Config.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 15 * time.Second
	}
	limit := f.Config.PerQueryLimit
	if limit <= 0 {
		limit = 20
	}

	byName := make(map[string]SourceAdapter, len(f.Adapters))
	for _, a := range f.Adapters {
		byName[a.Name()] = a
	}

	perQuery := make([][]types.PaperRecord, len(queries))
	perQueryErr := make([]error, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, q := range queries {
		i, q := i, q
		adapter, ok := byName[q.Source]
		if !ok {
			perQueryErr[i] = fmt.Errorf("no adapter for source %q", q.Source)
			continue
		}

		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, callTimeout)
			defer cancel()

			records, err := adapter.Fetch(callCtx, q.Text, limit)
			if err != nil {
				perQueryErr[i] = fmt.Errorf("%s query %q: %w", q.Source, q.Text, err)
				if f.Logger != nil {
					f.Logger.Warn("source query failed",
						zap.String("source", q.Source),
						zap.String("query", q.Text),
						zap.Error(err))
				}
				return nil
			}
			perQuery[i] = records
			return nil
		})
	}

	// Workers never return errors; Wait only observes ctx cancellation.
	if err := g.Wait(); err != nil {
		return Output{}, err
	}
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	out := Output{}
	reports := map[string]*types.SourceReport{}
	var order []string

	for i, q := range queries {
		rep, ok := reports[q.Source]
		if !ok {
			rep = &types.SourceReport{Source: q.Source}
			reports[q.Source] = rep
			order = append(order, q.Source)
		}
		rep.QueriesIssued++

		if err := perQueryErr[i]; err != nil {
			rep.Failed++
			rep.Errors = append(rep.Errors, err.Error())
			continue
		}
		rep.Succeeded++
		rep.Papers += len(perQuery[i])
		out.Records = append(out.Records, perQuery[i]...)
	}

	allFailed := len(queries) > 0
	for _, rep := range reports {
		if rep.Succeeded > 0 {
			allFailed = false
		}
	}

	for _, name := range order {
		out.Reports = append(out.Reports, *reports[name])
	}

	if allFailed {
		return out, &types.PipelineError{
			Kind:  types.KindSourceUnavailable,
			Stage: "fetch",
			Err:   fmt.Errorf("all %d source queries failed", len(queries)),
		}
	}
	return out, nil
}
