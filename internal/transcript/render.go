package transcript

import (
	"fmt"
	"strings"
)

// Render converts a completed transcript into the requested output format.
// Custom-spelling rules are applied before chunking or serialization. Caption
// chunking only applies to the subtitle formats; plain text ignores
// charsPerCaption entirely.
func Render(t Transcript, format Format, charsPerCaption int, rules []SpellingRule) (string, error) {
	words := ApplySpelling(t.Words, rules)
	utterances := applySpellingToUtterances(t.Utterances, rules)

	switch format {
	case FormatText:
		return renderText(words, utterances), nil
	case FormatSRT:
		captions := ChunkCaptions(captionWords(words, utterances), charsPerCaption, t.Diarized())
		return renderSRT(captions, t.Diarized()), nil
	case FormatVTT:
		captions := ChunkCaptions(captionWords(words, utterances), charsPerCaption, t.Diarized())
		return renderVTT(captions, t.Diarized()), nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

// captionWords returns the word sequence used for chunking. When diarization
// is active the utterances are the authoritative partition and carry the
// speaker label for every word.
func captionWords(words []Word, utterances []Utterance) []Word {
	if len(utterances) == 0 {
		return words
	}
	flattened := make([]Word, 0, len(words))
	for _, u := range utterances {
		for _, w := range u.Words {
			if w.Speaker == "" {
				w.Speaker = u.Speaker
			}
			flattened = append(flattened, w)
		}
	}
	return flattened
}

func renderText(words []Word, utterances []Utterance) string {
	var b strings.Builder
	if len(utterances) == 0 {
		for i, w := range words {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
		if len(words) > 0 {
			b.WriteByte('\n')
		}
		return b.String()
	}
	for i, u := range utterances {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("Speaker ")
		b.WriteString(u.Speaker)
		b.WriteString(":\n")
		for j, w := range u.Words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderSRT(captions []Caption, diarized bool) string {
	var b strings.Builder
	for _, c := range captions {
		fmt.Fprintf(&b, "%d\n", c.Index)
		b.WriteString(formatTimestamp(c.StartMS, ','))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(c.EndMS, ','))
		b.WriteByte('\n')
		b.WriteString(captionText(c, diarized))
		b.WriteString("\n\n")
	}
	return b.String()
}

func renderVTT(captions []Caption, diarized bool) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for _, c := range captions {
		b.WriteString(formatTimestamp(c.StartMS, '.'))
		b.WriteString(" --> ")
		b.WriteString(formatTimestamp(c.EndMS, '.'))
		b.WriteByte('\n')
		b.WriteString(captionText(c, diarized))
		b.WriteString("\n\n")
	}
	return b.String()
}

func captionText(c Caption, diarized bool) string {
	if !diarized {
		return c.Text
	}
	return "Speaker " + c.Speaker + ": " + c.Text
}

// formatTimestamp renders milliseconds as HH:MM:SS separated from the
// millisecond component by sep (comma for SRT, period for WebVTT). Hours are
// zero-padded to two digits but unbounded beyond 24.
func formatTimestamp(ms int64, sep byte) string {
	hours := ms / 3_600_000
	minutes := ms / 60_000 % 60
	seconds := ms / 1000 % 60
	millis := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}
