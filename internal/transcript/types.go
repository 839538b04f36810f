package transcript

import (
	"fmt"
	"strings"
)

// Status is the remote job state reported by the transcription service.
// Transitions are driven solely by polling responses.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether the status ends the polling loop.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Word is a single recognized token with millisecond timestamps. Speaker is
// empty unless diarization was requested.
type Word struct {
	Text    string
	StartMS int64
	EndMS   int64
	Speaker string
}

// Utterance groups consecutive words spoken by one speaker. Utterances
// partition the word sequence when diarization is enabled.
type Utterance struct {
	Speaker string
	Words   []Word
}

// Transcript is the completed result of one transcription job.
type Transcript struct {
	Words      []Word
	Utterances []Utterance
}

// Diarized reports whether speaker labels are present.
func (t Transcript) Diarized() bool {
	return len(t.Utterances) > 0
}

// Caption is a timed text fragment for the subtitle formats. It is derived
// transiently during rendering and never persisted.
type Caption struct {
	Index   int
	StartMS int64
	EndMS   int64
	Speaker string
	Text    string
}

// SpellingRule replaces an exact transcript token with a different spelling.
// From must be non-empty; matching is case-sensitive and whole-token.
type SpellingRule struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Format selects the rendered output shape.
type Format string

const (
	FormatText Format = "text"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
)

// ParseFormat validates a format selector.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case FormatText:
		return FormatText, nil
	case FormatSRT:
		return FormatSRT, nil
	case FormatVTT:
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text, srt, or vtt)", value)
	}
}
