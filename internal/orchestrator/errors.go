package orchestrator

import "fmt"

// SubmissionError is a failure to get the job created at all: network error,
// authentication rejection, or a request the service refused. Never retried.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return fmt.Sprintf("submit transcription job: %v", e.Err) }

func (e *SubmissionError) Unwrap() error { return e.Err }

// ExitCode classifies submission failures as job failures.
func (e *SubmissionError) ExitCode() int { return 3 }

// JobFailedError carries the diagnostic the service supplied for a job that
// reached the error state.
type JobFailedError struct {
	Reason string
}

func (e *JobFailedError) Error() string {
	if e.Reason == "" {
		return "transcription failed"
	}
	return "transcription failed: " + e.Reason
}

// ExitCode classifies remote job failures as environment errors.
func (e *JobFailedError) ExitCode() int { return 3 }

// TimeoutError means no terminal state was reached within the configured
// wall-clock budget. Persistent poll failures surface the same way, since
// the caller cannot tell a slow service from a flaky network.
type TimeoutError struct {
	Timeout string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for transcription to complete", e.Timeout)
}

// ExitCode classifies timeouts as environment errors.
func (e *TimeoutError) ExitCode() int { return 3 }
