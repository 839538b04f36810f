package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"assemblyai-cli/internal/transcript"
)

const (
	configDirName  = ".assemblyai-cli"
	configFileName = "config.json"
	lockFileName   = ".config.lock"
)

// FileConfig mirrors the persisted JSON config. Nil fields are absent from
// the file; unknown keys are ignored on load. The same shape carries
// explicit CLI flag values during resolution.
type FileConfig struct {
	APIKey              *string                   `json:"apiKey,omitempty"`
	BaseURL             *string                   `json:"baseUrl,omitempty"`
	Format              *string                   `json:"format,omitempty"`
	Output              *string                   `json:"output,omitempty"`
	SpeechModel         *string                   `json:"speechModel,omitempty"`
	LanguageDetection   *bool                     `json:"languageDetection,omitempty"`
	Language            *string                   `json:"language,omitempty"`
	Punctuate           *bool                     `json:"punctuate,omitempty"`
	FormatText          *bool                     `json:"formatText,omitempty"`
	Disfluencies        *bool                     `json:"disfluencies,omitempty"`
	FilterProfanity     *bool                     `json:"filterProfanity,omitempty"`
	SpeakerLabels       *bool                     `json:"speakerLabels,omitempty"`
	Multichannel        *bool                     `json:"multichannel,omitempty"`
	SpeechThreshold     *float64                  `json:"speechThreshold,omitempty"`
	CharsPerCaption     *int                      `json:"charsPerCaption,omitempty"`
	WordBoost           []string                  `json:"wordBoost,omitempty"`
	CustomSpelling      []transcript.SpellingRule `json:"customSpelling,omitempty"`
	PollIntervalSeconds *int                      `json:"pollIntervalSeconds,omitempty"`
	TimeoutSeconds      *int                      `json:"timeoutSeconds,omitempty"`
}

// Dir returns the per-user config directory (~/.assemblyai-cli).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}

// Path returns the config file location (~/.assemblyai-cli/config.json).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the persisted config. A missing file is not an error; defaults
// apply. When config.json is absent but ~/.assemblyai-cli itself is a
// regular file it is read as the config, a layout older releases used.
// Access failures and malformed JSON are fatal SourceErrors.
func Load() (FileConfig, string, error) {
	path, err := Path()
	if err != nil {
		return FileConfig{}, "", err
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		legacy, dirErr := Dir()
		if dirErr == nil {
			if info, statErr := os.Stat(legacy); statErr == nil && info.Mode().IsRegular() {
				legacyData, legacyErr := os.ReadFile(legacy)
				if legacyErr != nil {
					return FileConfig{}, legacy, &SourceError{Op: "read", Path: legacy, Err: legacyErr}
				}
				return parseConfig(legacyData, legacy)
			}
		}
		if errors.Is(readErr, fs.ErrNotExist) {
			return FileConfig{}, path, nil
		}
		return FileConfig{}, path, &SourceError{Op: "read", Path: path, Err: readErr}
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, path string) (FileConfig, string, error) {
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, path, &SourceError{Op: "parse", Path: path, Err: err}
	}
	return cfg, path, nil
}

// SetAPIKey persists a new API key to config.json, preserving every other
// key in the file byte-for-byte at the JSON level (including keys this tool
// does not know about). The write is guarded by a file lock so concurrent
// init runs cannot clobber each other.
func SetAPIKey(key string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, configFileName)

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock config file: %w", err)
	}
	defer lock.Unlock()

	raw := map[string]json.RawMessage{}
	if data, readErr := os.ReadFile(path); readErr == nil {
		if err := json.Unmarshal(data, &raw); err != nil {
			return "", &SourceError{Op: "parse", Path: path, Err: err}
		}
	} else if !errors.Is(readErr, fs.ErrNotExist) {
		return "", &SourceError{Op: "read", Path: path, Err: readErr}
	}

	encodedKey, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("encode api key: %w", err)
	}
	raw["apiKey"] = encodedKey

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("write config file %s: %w", path, err)
	}
	return path, nil
}
