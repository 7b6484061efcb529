// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package jobs tracks asynchronous pipeline runs. Callers submit a query,
// get a job id back immediately, and poll for the terminal result. Terminal
// jobs stay in the registry until their TTL elapses.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/pdiddy/litreview/pkg/types"
)

// ErrNotFound is returned by Poll for ids that were never submitted or have
// already been evicted.
var ErrNotFound = errors.New("job not found")

// sweepInterval is how often the janitor scans for expired jobs.
// Overridden in tests.
var sweepInterval = time.Minute

// Status is a job lifecycle state. Transitions are monotonic:
// pending -> running -> success|failure. Terminal states are final.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Terminal reports whether s is a final state.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// Job is one tracked pipeline run. The orchestrator is the only writer;
// pipeline stages never touch it. Poll returns copies, so the Result pointer
// must be treated as read-only by callers.
type Job struct {
	ID        string              `json:"id"`
	Query     types.ResearchQuery `json:"query"`
	Status    Status              `json:"status"`
	CreatedAt time.Time           `json:"created_at"`

	// FinishedAt is zero until the job reaches a terminal state.
	FinishedAt time.Time `json:"finished_at,omitempty"`

	// Result is set on success only.
	Result *types.SynthesisResult `json:"result,omitempty"`

	// Error and ErrorKind are set on failure only.
	Error     string          `json:"error,omitempty"`
	ErrorKind types.ErrorKind `json:"error_kind,omitempty"`
}

// Registry is the in-memory job store. It is created at process start and
// shared by every submission; a janitor goroutine evicts terminal jobs once
// their TTL elapses.
type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	ttl  time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewRegistry creates a registry whose janitor evicts terminal jobs ttl
// after they finish. Call Stop to shut the janitor down.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = time.Hour
	}
	r := &Registry{
		jobs: make(map[string]*Job),
		ttl:  ttl,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.janitor()
	return r
}

// Stop shuts down the janitor goroutine. The registry remains usable for
// reads and writes afterwards; only eviction ceases.
func (r *Registry) Stop() {
	close(r.stop)
	<-r.done
}

func (r *Registry) janitor() {
	defer close(r.done)
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.sweep(time.Now())
		}
	}
}

// sweep removes terminal jobs whose TTL has elapsed as of now.
func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, job := range r.jobs {
		if job.Status.Terminal() && now.Sub(job.FinishedAt) >= r.ttl {
			delete(r.jobs, id)
		}
	}
}

// Get returns a snapshot of the job, or ErrNotFound.
func (r *Registry) Get(id string) (Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *job, nil
}

// Len returns the number of jobs currently held.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

func (r *Registry) insert(job *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// markRunning transitions a pending job to running. Transitions out of a
// terminal state are refused so a late writer cannot resurrect a job.
func (r *Registry) markRunning(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != StatusPending {
		return
	}
	job.Status = StatusRunning
}

// complete transitions a job to success with its result.
func (r *Registry) complete(id string, result types.SynthesisResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusSuccess
	job.Result = &result
	job.FinishedAt = time.Now()
}

// fail transitions a job to failure with an error summary.
func (r *Registry) fail(id string, kind types.ErrorKind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = StatusFailure
	job.Error = msg
	job.ErrorKind = kind
	job.FinishedAt = time.Now()
}
