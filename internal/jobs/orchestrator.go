// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/litreview/pkg/types"
)

// Runner executes one research query end to end. Satisfied by
// pipeline.Pipeline; injectable so the orchestrator is testable with
// deterministic substitutes.
type Runner interface {
	Run(ctx context.Context, query types.ResearchQuery) (types.SynthesisResult, error)
}

// Orchestrator wraps a Runner as trackable asynchronous jobs. Submit
// validates and returns immediately; the pipeline runs on its own goroutine
// with a wall-clock ceiling, detached from the caller's context so a client
// disconnect never cancels a dispatched job.
type Orchestrator struct {
	Runner   Runner
	Registry *Registry
	Config   types.JobsConfig

	// Archive, when non-nil, records terminal jobs. Failures to archive are
	// logged and otherwise ignored.
	Archive *Archive

	Logger *zap.Logger
}

// Submit validates the query, registers a pending job, and starts the
// pipeline in the background. The returned id is usable with Poll right
// away. A ValidationError is returned synchronously and no job is created.
func (o *Orchestrator) Submit(query types.ResearchQuery) (string, error) {
	if err := query.Validate(); err != nil {
		return "", err
	}

	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	job := &Job{
		ID:        uuid.NewString(),
		Query:     query,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	o.Registry.insert(job)

	logger = logger.With(zap.String("job_id", job.ID))
	logger.Info("job submitted", zap.String("query", query.Text))

	go o.run(job.ID, query, logger)

	return job.ID, nil
}

// Poll returns the job's current state. For terminal jobs the snapshot
// carries the result or the error summary.
func (o *Orchestrator) Poll(id string) (Job, error) {
	return o.Registry.Get(id)
}

func (o *Orchestrator) run(id string, query types.ResearchQuery, logger *zap.Logger) {
	timeout := o.Config.Timeout
	if timeout <= 0 {
		timeout = types.DefaultPipelineConfig().Jobs.Timeout
	}

	// Detached from the submitting caller on purpose: the job runs to
	// completion or the ceiling regardless of client disconnects.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	o.Registry.markRunning(id)
	logger.Info("job running")

	result, err := o.Runner.Run(ctx, query)
	if err != nil {
		kind := types.KindModelUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			kind = types.KindTimeout
		} else {
			var perr *types.PipelineError
			if errors.As(err, &perr) {
				kind = perr.Kind
			}
		}
		o.Registry.fail(id, kind, err.Error())
		logger.Warn("job failed", zap.String("kind", string(kind)), zap.Error(err))
	} else {
		o.Registry.complete(id, result)
		logger.Info("job succeeded",
			zap.Int("papers", result.Summary.FinalCount),
			zap.Int("references", len(result.References)))
	}

	if o.Archive != nil {
		job, err := o.Registry.Get(id)
		if err != nil {
			return
		}
		if err := o.Archive.Record(context.Background(), job); err != nil {
			logger.Warn("archive write failed", zap.Error(err))
		}
	}
}
