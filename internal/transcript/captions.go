package transcript

import "strings"

// ChunkCaptions groups words into captions by greedily accumulating words
// while the caption text (with single-space separators) stays within
// charsPerCaption. A word that would push the text past the budget starts a
// new caption; a single word longer than the budget forms a caption of its
// own. When diarized is true a speaker change always forces a boundary, so a
// caption never mixes two speakers. Zero words yield zero captions.
func ChunkCaptions(words []Word, charsPerCaption int, diarized bool) []Caption {
	if len(words) == 0 {
		return nil
	}

	var captions []Caption
	var texts []string
	var length int
	var startMS, endMS int64
	var speaker string

	flush := func() {
		if len(texts) == 0 {
			return
		}
		captions = append(captions, Caption{
			Index:   len(captions) + 1,
			StartMS: startMS,
			EndMS:   endMS,
			Speaker: speaker,
			Text:    strings.Join(texts, " "),
		})
		texts = texts[:0]
		length = 0
	}

	for _, word := range words {
		switch {
		case len(texts) == 0:
		case diarized && word.Speaker != speaker:
			flush()
		case length+1+len(word.Text) > charsPerCaption:
			flush()
		}
		if len(texts) == 0 {
			startMS = word.StartMS
			speaker = word.Speaker
			length = len(word.Text)
		} else {
			length += 1 + len(word.Text)
		}
		texts = append(texts, word.Text)
		endMS = word.EndMS
	}
	flush()

	return captions
}
