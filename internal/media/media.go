// Package media validates input files and prepares them for upload. Audio
// files and http(s) URLs pass through untouched; video files have their
// audio track extracted to a temporary file with ffmpeg.
package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FFmpegCommand is the external tool used for audio extraction.
const FFmpegCommand = "ffmpeg"

var audioExtensions = map[string]struct{}{
	".mp3":  {},
	".wav":  {},
	".flac": {},
	".m4a":  {},
	".ogg":  {},
}

var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".avi":  {},
	".mov":  {},
	".mkv":  {},
	".webm": {},
}

// UnsupportedExtensionError rejects a file whose extension belongs to
// neither the audio nor the video set.
type UnsupportedExtensionError struct {
	Path string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension %q: expected one of %s", filepath.Ext(e.Path), supportedExtensions())
}

// ExitCode classifies extension rejections as user errors.
func (e *UnsupportedExtensionError) ExitCode() int { return 2 }

// ExtractionError is a failed ffmpeg invocation.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract audio: %v", e.Err) }

func (e *ExtractionError) Unwrap() error { return e.Err }

// ExitCode classifies extraction failures alongside other media errors.
func (e *ExtractionError) ExitCode() int { return 2 }

// IsRemote reports whether the input is an http(s) URL rather than a local
// path. URLs are handed to the service as-is.
func IsRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// CheckPath validates the input's extension against the supported set.
// Remote URLs are not checked. This runs before any upload attempt and
// before API key resolution.
func CheckPath(path string) error {
	if IsRemote(path) {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := audioExtensions[ext]; ok {
		return nil
	}
	if _, ok := videoExtensions[ext]; ok {
		return nil
	}
	return &UnsupportedExtensionError{Path: path}
}

// Preparer turns a validated input into a reference the upload step can use.
type Preparer struct {
	ffmpegBinary  string
	tempDir       string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewPreparer creates a media preparer using the given ffmpeg binary name
// (empty means the default found on PATH).
func NewPreparer(ffmpegBinary string) *Preparer {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Preparer{ffmpegBinary: ffmpegBinary, tempDir: os.TempDir()}
}

// WithCommandRunner sets a custom command runner (for testing).
func (p *Preparer) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	p.commandRunner = runner
}

// WithTempDir overrides the directory for extracted audio files.
func (p *Preparer) WithTempDir(dir string) {
	if dir != "" {
		p.tempDir = dir
	}
}

// Prepare returns the reference to submit and a cleanup func for any
// temporary file it created. Audio files and URLs come back unchanged; video
// files get a mono MP3 audio track extracted next to the temp dir.
func (p *Preparer) Prepare(ctx context.Context, path string) (string, func(), error) {
	noop := func() {}
	if IsRemote(path) {
		return path, noop, nil
	}
	if err := CheckPath(path); err != nil {
		return "", noop, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := audioExtensions[ext]; ok {
		return path, noop, nil
	}

	dest := filepath.Join(p.tempDir, "assemblyai-"+uuid.NewString()+".mp3")
	if err := p.extractAudio(ctx, path, dest); err != nil {
		os.Remove(dest)
		return "", noop, &ExtractionError{Err: err}
	}
	cleanup := func() { os.Remove(dest) }
	return dest, cleanup, nil
}

func (p *Preparer) extractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-c:a", "libmp3lame",
		dest,
	}
	if p.commandRunner != nil {
		return p.commandRunner(ctx, p.ffmpegBinary, args...)
	}
	cmd := exec.CommandContext(ctx, p.ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", p.ffmpegBinary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func supportedExtensions() string {
	exts := make([]string, 0, len(audioExtensions)+len(videoExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	for ext := range videoExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, " ")
}
