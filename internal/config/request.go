package config

import (
	"time"

	"assemblyai-cli/internal/transcript"
)

const defaultBaseURL = "https://api.eu.assemblyai.com"

// JobRequest is the fully-resolved, validated description of one
// transcription run. It is constructed once per invocation and never
// mutated afterwards.
type JobRequest struct {
	APIKey            string
	BaseURL           string
	MediaPath         string
	SpeechModel       string
	LanguageDetection bool
	Language          string
	Punctuate         bool
	FormatText        bool
	Disfluencies      bool
	FilterProfanity   bool
	SpeakerLabels     bool
	Multichannel      bool
	SpeechThreshold   *float64
	WordBoost         []string
	CustomSpelling    []transcript.SpellingRule
	Format            transcript.Format
	CharsPerCaption   int
	PollInterval      time.Duration
	Timeout           time.Duration
	Output            string
}

// EnsureAPIKey fails when no source yielded a usable key.
func (r JobRequest) EnsureAPIKey() error {
	if r.APIKey == "" {
		return &MissingKeyError{}
	}
	return nil
}

// Overrides carries explicitly-set CLI flag values. Nil fields fall through
// to the config file, then built-in defaults.
type Overrides = FileConfig

// Defaults returns the built-in request values used when neither a flag nor
// the config file sets a field.
func Defaults() JobRequest {
	return JobRequest{
		BaseURL:           defaultBaseURL,
		SpeechModel:       "best",
		LanguageDetection: true,
		Punctuate:         true,
		FormatText:        true,
		Multichannel:      true,
		Format:            transcript.FormatText,
		CharsPerCaption:   128,
		PollInterval:      3 * time.Second,
		Timeout:           600 * time.Second,
	}
}

// Resolve merges overrides and the config file into a validated JobRequest.
// Precedence, highest first: explicit CLI flag, config-file field, built-in
// default. The API key additionally consults the environment (see
// ResolveAPIKey); a missing key is not an error here so that media
// validation can run first. Call EnsureAPIKey before any network activity.
func Resolve(overrides Overrides, file FileConfig, getenv func(string) string) (JobRequest, error) {
	merged := merge(file, overrides)
	req := Defaults()

	if merged.BaseURL != nil && *merged.BaseURL != "" {
		req.BaseURL = *merged.BaseURL
	}
	if merged.SpeechModel != nil {
		req.SpeechModel = *merged.SpeechModel
	}
	if merged.Language != nil {
		req.Language = *merged.Language
	}
	if merged.LanguageDetection != nil {
		req.LanguageDetection = *merged.LanguageDetection
	} else if req.Language != "" {
		// A known language disables auto-detection unless detection was
		// explicitly requested.
		req.LanguageDetection = false
	}
	if merged.Punctuate != nil {
		req.Punctuate = *merged.Punctuate
	}
	if merged.FormatText != nil {
		req.FormatText = *merged.FormatText
	}
	if merged.Disfluencies != nil {
		req.Disfluencies = *merged.Disfluencies
	}
	if merged.FilterProfanity != nil {
		req.FilterProfanity = *merged.FilterProfanity
	}
	if merged.SpeakerLabels != nil {
		req.SpeakerLabels = *merged.SpeakerLabels
	}
	if merged.Multichannel != nil {
		req.Multichannel = *merged.Multichannel
	}
	if merged.SpeechThreshold != nil {
		req.SpeechThreshold = merged.SpeechThreshold
	}
	if merged.CharsPerCaption != nil {
		req.CharsPerCaption = *merged.CharsPerCaption
	}
	if merged.WordBoost != nil {
		req.WordBoost = merged.WordBoost
	}
	if merged.CustomSpelling != nil {
		req.CustomSpelling = merged.CustomSpelling
	}
	if merged.PollIntervalSeconds != nil {
		req.PollInterval = time.Duration(*merged.PollIntervalSeconds) * time.Second
	}
	if merged.TimeoutSeconds != nil {
		req.Timeout = time.Duration(*merged.TimeoutSeconds) * time.Second
	}
	if merged.Output != nil {
		req.Output = *merged.Output
	}

	rawFormat := string(req.Format)
	if merged.Format != nil {
		rawFormat = *merged.Format
	}

	req.APIKey = ResolveAPIKey(stringValue(overrides.APIKey), file, getenv)

	if err := req.validate(rawFormat); err != nil {
		return JobRequest{}, err
	}
	return req, nil
}

// merge overlays explicit overrides on top of the file config.
func merge(file, overrides FileConfig) FileConfig {
	out := file
	if overrides.APIKey != nil {
		out.APIKey = overrides.APIKey
	}
	if overrides.BaseURL != nil {
		out.BaseURL = overrides.BaseURL
	}
	if overrides.Format != nil {
		out.Format = overrides.Format
	}
	if overrides.Output != nil {
		out.Output = overrides.Output
	}
	if overrides.SpeechModel != nil {
		out.SpeechModel = overrides.SpeechModel
	}
	if overrides.LanguageDetection != nil {
		out.LanguageDetection = overrides.LanguageDetection
	}
	if overrides.Language != nil {
		out.Language = overrides.Language
	}
	if overrides.Punctuate != nil {
		out.Punctuate = overrides.Punctuate
	}
	if overrides.FormatText != nil {
		out.FormatText = overrides.FormatText
	}
	if overrides.Disfluencies != nil {
		out.Disfluencies = overrides.Disfluencies
	}
	if overrides.FilterProfanity != nil {
		out.FilterProfanity = overrides.FilterProfanity
	}
	if overrides.SpeakerLabels != nil {
		out.SpeakerLabels = overrides.SpeakerLabels
	}
	if overrides.Multichannel != nil {
		out.Multichannel = overrides.Multichannel
	}
	if overrides.SpeechThreshold != nil {
		out.SpeechThreshold = overrides.SpeechThreshold
	}
	if overrides.CharsPerCaption != nil {
		out.CharsPerCaption = overrides.CharsPerCaption
	}
	if overrides.WordBoost != nil {
		out.WordBoost = overrides.WordBoost
	}
	if overrides.CustomSpelling != nil {
		out.CustomSpelling = overrides.CustomSpelling
	}
	if overrides.PollIntervalSeconds != nil {
		out.PollIntervalSeconds = overrides.PollIntervalSeconds
	}
	if overrides.TimeoutSeconds != nil {
		out.TimeoutSeconds = overrides.TimeoutSeconds
	}
	return out
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
