package config_test

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"assemblyai-cli/internal/config"
	"assemblyai-cli/internal/transcript"
)

func noEnv(string) string { return "" }

func env(pairs map[string]string) func(string) string {
	return func(key string) string { return pairs[key] }
}

func strptr(s string) *string     { return &s }
func boolptr(b bool) *bool        { return &b }
func intptr(i int) *int           { return &i }
func floatptr(f float64) *float64 { return &f }

func writeConfig(t *testing.T, home, name, contents string) string {
	t.Helper()
	dir := filepath.Join(home, ".assemblyai-cli")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, path, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.APIKey != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadParsesKnownKeysAndIgnoresUnknown(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "config.json", `{"format":"vtt","timeoutSeconds":123,"someFutureKey":true}`)

	cfg, _, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Format == nil || *cfg.Format != "vtt" {
		t.Fatalf("expected format vtt, got %+v", cfg.Format)
	}
	if cfg.TimeoutSeconds == nil || *cfg.TimeoutSeconds != 123 {
		t.Fatalf("expected timeoutSeconds 123, got %+v", cfg.TimeoutSeconds)
	}
}

func TestLoadMalformedJSONIsParseError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "config.json", "{ not-json")

	_, _, err := config.Load()
	var srcErr *config.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if srcErr.Op != "parse" || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadLegacySingleFileLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	// Older releases stored the config at ~/.assemblyai-cli itself.
	if err := os.WriteFile(filepath.Join(home, ".assemblyai-cli"), []byte(`{"format":"srt"}`), 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	cfg, _, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Format == nil || *cfg.Format != "srt" {
		t.Fatalf("expected format srt from legacy file, got %+v", cfg.Format)
	}
}

func TestLoadLegacyFileMalformedIsParseError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, ".assemblyai-cli"), []byte("{ not-json"), 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}

	_, _, err := config.Load()
	var srcErr *config.SourceError
	if !errors.As(err, &srcErr) || srcErr.Op != "parse" {
		t.Fatalf("expected parse SourceError, got %v", err)
	}
}

func TestLoadConfigPathIsDirectoryIsReadError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.MkdirAll(filepath.Join(home, ".assemblyai-cli", "config.json"), 0o755); err != nil {
		t.Fatalf("create directory: %v", err)
	}

	_, _, err := config.Load()
	var srcErr *config.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if srcErr.Op != "read" || !strings.Contains(err.Error(), "failed to read config file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetAPIKeyCreatesConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := config.SetAPIKey("dummy-key")
	if err != nil {
		t.Fatalf("SetAPIKey returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if parsed["apiKey"] != "dummy-key" {
		t.Fatalf("unexpected apiKey: %v", parsed["apiKey"])
	}
}

func TestSetAPIKeyPreservesOtherFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "config.json", `{"format":"vtt","timeoutSeconds":123,"extra":{"nested":1}}`)

	if _, err := config.SetAPIKey("new-key"); err != nil {
		t.Fatalf("SetAPIKey returned error: %v", err)
	}

	path, _ := config.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if parsed["apiKey"] != "new-key" {
		t.Fatalf("apiKey not updated: %v", parsed["apiKey"])
	}
	if parsed["format"] != "vtt" {
		t.Fatalf("format not preserved: %v", parsed["format"])
	}
	if parsed["timeoutSeconds"] != float64(123) {
		t.Fatalf("timeoutSeconds not preserved: %v", parsed["timeoutSeconds"])
	}
	if _, ok := parsed["extra"]; !ok {
		t.Fatal("unknown keys must be preserved on save")
	}
}

func TestResolveDefaults(t *testing.T) {
	req, err := config.Resolve(config.Overrides{}, config.FileConfig{}, noEnv)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if req.BaseURL != "https://api.eu.assemblyai.com" {
		t.Fatalf("unexpected base url: %q", req.BaseURL)
	}
	if req.Format != transcript.FormatText || req.CharsPerCaption != 128 {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	if !req.LanguageDetection || !req.Punctuate || !req.FormatText || !req.Multichannel {
		t.Fatalf("unexpected boolean defaults: %+v", req)
	}
	if req.SpeakerLabels || req.Disfluencies || req.FilterProfanity {
		t.Fatalf("unexpected boolean defaults: %+v", req)
	}
	if req.PollInterval != 3*time.Second || req.Timeout != 600*time.Second {
		t.Fatalf("unexpected intervals: %+v", req)
	}
	if req.APIKey != "" {
		t.Fatalf("expected no api key, got %q", req.APIKey)
	}
	if err := req.EnsureAPIKey(); err == nil {
		t.Fatal("EnsureAPIKey must fail without a key")
	}
}

func TestResolvePrecedenceFlagOverFileOverDefault(t *testing.T) {
	file := config.FileConfig{
		Format:          strptr("vtt"),
		CharsPerCaption: intptr(64),
		TimeoutSeconds:  intptr(123),
	}
	overrides := config.Overrides{Format: strptr("srt")}

	req, err := config.Resolve(overrides, file, noEnv)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if req.Format != transcript.FormatSRT {
		t.Fatalf("flag must beat file: %q", req.Format)
	}
	if req.CharsPerCaption != 64 {
		t.Fatalf("file must beat default: %d", req.CharsPerCaption)
	}
	if req.Timeout != 123*time.Second {
		t.Fatalf("file timeout must apply: %v", req.Timeout)
	}
}

func TestResolveAPIKeyChain(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("decoded-key"))
	// Strip padding; resolution must restore it before decoding.
	trimmed := strings.TrimRight(encoded, "=")

	cases := []struct {
		name string
		flag string
		env  map[string]string
		file config.FileConfig
		want string
	}{
		{
			name: "flag wins over everything",
			flag: "flag-key",
			env:  map[string]string{config.EnvAPIKey: "env-key"},
			file: config.FileConfig{APIKey: strptr("file-key")},
			want: "flag-key",
		},
		{
			name: "plain env beats encoded env and file",
			env: map[string]string{
				config.EnvAPIKey:        "env-key",
				config.EnvAPIKeyEncoded: encoded,
			},
			file: config.FileConfig{APIKey: strptr("file-key")},
			want: "env-key",
		},
		{
			name: "encoded env is base64 decoded with padding restored",
			env:  map[string]string{config.EnvAPIKeyEncoded: trimmed},
			want: "decoded-key",
		},
		{
			name: "undecodable encoded env falls through to file",
			env:  map[string]string{config.EnvAPIKeyEncoded: "!!!not-base64!!!"},
			file: config.FileConfig{APIKey: strptr("file-key")},
			want: "file-key",
		},
		{
			name: "no source yields empty",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := config.ResolveAPIKey(tc.flag, tc.file, env(tc.env))
			if got != tc.want {
				t.Fatalf("ResolveAPIKey = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestResolveRejectsOutOfRangeThreshold(t *testing.T) {
	file := config.FileConfig{SpeechThreshold: floatptr(1.5)}

	_, err := config.Resolve(config.Overrides{}, file, noEnv)
	var valErr *config.ValueError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValueError, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid speech threshold") {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
	if valErr.ExitCode() != 2 {
		t.Fatalf("threshold errors must exit 2, got %d", valErr.ExitCode())
	}
}

func TestResolveRejectsEmptySpellingFrom(t *testing.T) {
	file := config.FileConfig{CustomSpelling: []transcript.SpellingRule{{From: "", To: "x"}}}

	_, err := config.Resolve(config.Overrides{}, file, noEnv)
	if err == nil || !strings.Contains(err.Error(), "invalid custom spelling entry") {
		t.Fatalf("expected custom spelling diagnostic, got %v", err)
	}
}

func TestResolveRejectsBadFormatAndModel(t *testing.T) {
	if _, err := config.Resolve(config.Overrides{Format: strptr("docx")}, config.FileConfig{}, noEnv); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := config.Resolve(config.Overrides{SpeechModel: strptr("huge")}, config.FileConfig{}, noEnv); err == nil {
		t.Fatal("expected error for unsupported speech model")
	}
}

func TestResolveRejectsNonPositiveIntervals(t *testing.T) {
	if _, err := config.Resolve(config.Overrides{PollIntervalSeconds: intptr(0)}, config.FileConfig{}, noEnv); err == nil {
		t.Fatal("expected error for zero poll interval")
	}
	if _, err := config.Resolve(config.Overrides{TimeoutSeconds: intptr(-1)}, config.FileConfig{}, noEnv); err == nil {
		t.Fatal("expected error for negative timeout")
	}
	if _, err := config.Resolve(config.Overrides{CharsPerCaption: intptr(0)}, config.FileConfig{}, noEnv); err == nil {
		t.Fatal("expected error for zero chars per caption")
	}
}

func TestResolveLanguageDisablesDetection(t *testing.T) {
	req, err := config.Resolve(config.Overrides{Language: strptr("ru")}, config.FileConfig{}, noEnv)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if req.LanguageDetection {
		t.Fatal("explicit language must disable auto-detection")
	}
	if req.Language != "ru" {
		t.Fatalf("unexpected language: %q", req.Language)
	}

	req, err = config.Resolve(
		config.Overrides{Language: strptr("ru"), LanguageDetection: boolptr(true)},
		config.FileConfig{}, noEnv,
	)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !req.LanguageDetection {
		t.Fatal("explicit detection request must win")
	}
}

func TestResolveRejectsBadLanguageCode(t *testing.T) {
	_, err := config.Resolve(config.Overrides{Language: strptr("not a language")}, config.FileConfig{}, noEnv)
	if err == nil || !strings.Contains(err.Error(), "invalid language code") {
		t.Fatalf("expected language diagnostic, got %v", err)
	}
}
