// Package coreerr defines the error taxonomy surfaced to callers of the
// synthesis core (spec.md §7): ValidationError, ResourceError,
// ProductionError, and CancellationAck.
package coreerr

import "fmt"

// ValidationError reports one or more invariant violations found in an
// input event. It rejects the whole sequence.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation error: %s", e.Violations[0])
	}
	return fmt.Sprintf("validation error: %d violations (first: %s)", len(e.Violations), e.Violations[0])
}

// ResourceError reports a soundfont or audio-sink resource that could not
// be loaded or opened. It is non-recoverable for the instance that hit it.
type ResourceError struct {
	Resource string // e.g. "soundfont", "audio sink"
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource error (%s): %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ProductionError reports a failure mid-production-loop: a sink write
// failure or an internal consistency failure. It aborts the sequence; no
// partial replay is attempted.
type ProductionError struct {
	SampleIndex int64
	Err         error
}

func (e *ProductionError) Error() string {
	return fmt.Sprintf("production error at sample %d: %v", e.SampleIndex, e.Err)
}

func (e *ProductionError) Unwrap() error { return e.Err }

// CancellationAck is returned (not strictly an error condition, but
// surfaced through the error return per spec.md §7) when caller-initiated
// cancellation has completed.
type CancellationAck struct {
	SamplesEmitted int64
}

func (e *CancellationAck) Error() string {
	return fmt.Sprintf("playback cancelled after %d samples", e.SamplesEmitted)
}
