package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"assemblyai-cli/internal/transcript"
)

// validate enforces every field rule before any network activity. The
// resolved format string is validated here because the raw selector may come
// from any source.
func (r *JobRequest) validate(rawFormat string) error {
	format, err := transcript.ParseFormat(rawFormat)
	if err != nil {
		return &ValueError{Msg: err.Error()}
	}
	r.Format = format

	switch strings.ToLower(strings.TrimSpace(r.SpeechModel)) {
	case "best":
		r.SpeechModel = "best"
	case "nano":
		r.SpeechModel = "nano"
	default:
		return &ValueError{Msg: fmt.Sprintf("invalid speech model %q (expected best or nano)", r.SpeechModel)}
	}

	if r.SpeechThreshold != nil && (*r.SpeechThreshold < 0.0 || *r.SpeechThreshold > 1.0) {
		return &ValueError{Msg: fmt.Sprintf("invalid speech threshold %v: must be between 0.0 and 1.0", *r.SpeechThreshold)}
	}

	for i, rule := range r.CustomSpelling {
		if strings.TrimSpace(rule.From) == "" {
			return &ValueError{Msg: fmt.Sprintf("invalid custom spelling entry %d: 'from' must be non-empty", i+1)}
		}
	}

	if r.CharsPerCaption <= 0 {
		return &ValueError{Msg: fmt.Sprintf("invalid chars per caption %d: must be greater than zero", r.CharsPerCaption)}
	}
	if r.PollInterval <= 0 {
		return &ValueError{Msg: "invalid poll interval: must be greater than zero seconds"}
	}
	if r.Timeout <= 0 {
		return &ValueError{Msg: "invalid timeout: must be greater than zero seconds"}
	}

	if r.Language != "" {
		tag, err := language.Parse(r.Language)
		if err != nil {
			return &ValueError{Msg: fmt.Sprintf("invalid language code %q", r.Language)}
		}
		r.Language = tag.String()
	}

	return nil
}
