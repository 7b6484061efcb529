// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ErrorKind categorizes pipeline failures for reporting.
type ErrorKind string

const (
	// KindValidation marks malformed input rejected at submit time.
	KindValidation ErrorKind = "validation"

	// KindSourceUnavailable marks a per-source fetch failure. Absorbed into
	// summary counters; never fatal to a run.
	KindSourceUnavailable ErrorKind = "source_unavailable"

	// KindModelUnavailable marks a model-call failure. Expansion and
	// classification degrade to fallbacks; synthesis failures are fatal.
	KindModelUnavailable ErrorKind = "model_unavailable"

	// KindTimeout marks a job that exceeded its wall-clock ceiling.
	KindTimeout ErrorKind = "timeout"
)

// PipelineError is a categorized error surfaced on job failure.
type PipelineError struct {
	Kind  ErrorKind
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// ValidationError reports a malformed ResearchQuery. It is fatal at submit
// time, before any pipeline work starts.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Reason)
}
