package assemblyai

import "assemblyai-cli/internal/transcript"

// TranscriptParams is the job-creation payload. Field names follow the
// AssemblyAI v2 wire format.
type TranscriptParams struct {
	AudioURL          string           `json:"audio_url"`
	SpeechModel       string           `json:"speech_model,omitempty"`
	LanguageDetection bool             `json:"language_detection"`
	LanguageCode      string           `json:"language_code,omitempty"`
	Punctuate         bool             `json:"punctuate"`
	FormatText        bool             `json:"format_text"`
	Disfluencies      bool             `json:"disfluencies"`
	FilterProfanity   bool             `json:"filter_profanity"`
	SpeakerLabels     bool             `json:"speaker_labels"`
	Multichannel      bool             `json:"multichannel"`
	SpeechThreshold   *float64         `json:"speech_threshold,omitempty"`
	WordBoost         []string         `json:"word_boost,omitempty"`
	CustomSpelling    []CustomSpelling `json:"custom_spelling,omitempty"`
}

// CustomSpelling is the wire shape of one spelling rule. The service accepts
// several source tokens per rule; this tool always sends exactly one.
type CustomSpelling struct {
	From []string `json:"from"`
	To   string   `json:"to"`
}

// SpellingRules converts domain spelling rules to their wire shape.
func SpellingRules(rules []transcript.SpellingRule) []CustomSpelling {
	if len(rules) == 0 {
		return nil
	}
	out := make([]CustomSpelling, 0, len(rules))
	for _, rule := range rules {
		out = append(out, CustomSpelling{From: []string{rule.From}, To: rule.To})
	}
	return out
}

// TranscriptResult is the polled state of one job. Words and Utterances are
// populated once Status is completed.
type TranscriptResult struct {
	ID         string
	Status     transcript.Status
	Error      string
	Words      []transcript.Word
	Utterances []transcript.Utterance
}

// Transcript converts a completed result into the domain transcript.
func (r *TranscriptResult) Transcript() transcript.Transcript {
	return transcript.Transcript{Words: r.Words, Utterances: r.Utterances}
}

type wireWord struct {
	Text    string `json:"text"`
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Speaker string `json:"speaker"`
}

type wireUtterance struct {
	Speaker string     `json:"speaker"`
	Words   []wireWord `json:"words"`
}

type transcriptPayload struct {
	ID         string          `json:"id"`
	Status     string          `json:"status"`
	Error      string          `json:"error"`
	Words      []wireWord      `json:"words"`
	Utterances []wireUtterance `json:"utterances"`
}

func (p *transcriptPayload) toResult() *TranscriptResult {
	result := &TranscriptResult{
		ID:     p.ID,
		Status: transcript.Status(p.Status),
		Error:  p.Error,
	}
	result.Words = toWords(p.Words, "")
	for _, u := range p.Utterances {
		result.Utterances = append(result.Utterances, transcript.Utterance{
			Speaker: u.Speaker,
			Words:   toWords(u.Words, u.Speaker),
		})
	}
	return result
}

func toWords(words []wireWord, speaker string) []transcript.Word {
	if len(words) == 0 {
		return nil
	}
	out := make([]transcript.Word, 0, len(words))
	for _, w := range words {
		label := w.Speaker
		if label == "" {
			label = speaker
		}
		out = append(out, transcript.Word{
			Text:    w.Text,
			StartMS: w.Start,
			EndMS:   w.End,
			Speaker: label,
		})
	}
	return out
}
