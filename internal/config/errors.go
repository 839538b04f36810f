package config

import "fmt"

// ValueError is a user mistake in a config value (flag or file field). It is
// always fatal and reported before any network activity.
type ValueError struct {
	Msg string
}

func (e *ValueError) Error() string { return e.Msg }

// ExitCode classifies value mistakes as user/config validation errors.
func (e *ValueError) ExitCode() int { return 2 }

// SourceError is a failure to access or parse a config source, as opposed to
// a bad value inside it.
type SourceError struct {
	Op   string // "read" or "parse"
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("failed to %s config file %s: %v", e.Op, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ExitCode classifies source-access mistakes as environment errors.
func (e *SourceError) ExitCode() int { return 3 }

// MissingKeyError means no usable API key was found in any source.
type MissingKeyError struct{}

func (e *MissingKeyError) Error() string {
	return "no API key found: pass --api-key, set ASSEMBLYAI_API_KEY (or base64-encoded ASSEMBLY_AI_KEY), or run 'assemblyai-cli init'"
}

// ExitCode classifies a missing key as an environment error.
func (e *MissingKeyError) ExitCode() int { return 3 }
