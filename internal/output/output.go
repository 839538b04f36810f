// Package output writes rendered transcripts to stdout or a file.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteError is a failure to deliver the rendered transcript.
type WriteError struct {
	Dest string
	Err  error
}

func (e *WriteError) Error() string {
	if e.Dest == "" {
		return fmt.Sprintf("write transcript to stdout: %v", e.Err)
	}
	return fmt.Sprintf("write transcript to %s: %v", e.Dest, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ExitCode classifies delivery failures as environment errors.
func (e *WriteError) ExitCode() int { return 3 }

// Writer delivers rendered output to its destination.
type Writer struct {
	stdout io.Writer
}

// NewWriter creates an output writer. The stdout stream is injectable for
// tests; nil means os.Stdout.
func NewWriter(stdout io.Writer) *Writer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Writer{stdout: stdout}
}

// Write sends content to dest. An empty dest means stdout; otherwise the
// file is created (parent directories included) and overwritten.
func (w *Writer) Write(dest, content string) error {
	if dest == "" {
		if _, err := io.WriteString(w.stdout, content); err != nil {
			return &WriteError{Err: err}
		}
		return nil
	}
	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Dest: dest, Err: err}
		}
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return &WriteError{Dest: dest, Err: err}
	}
	return nil
}
