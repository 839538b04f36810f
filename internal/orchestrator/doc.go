// Package orchestrator drives one transcription job from submission through
// polling to a terminal state. The poll loop is strictly sequential: one
// sleep, one status call, never overlapping requests. Transient poll
// failures are logged and retried until the overall wall-clock timeout;
// terminal job states end the loop immediately.
package orchestrator
