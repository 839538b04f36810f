package transcript

// ApplySpelling returns a copy of words with custom-spelling rules applied.
// A rule matches only when its From equals the word text exactly; the first
// matching rule wins and no further rules are consulted for that word, so
// rules never chain. Timestamps and speaker labels are preserved.
func ApplySpelling(words []Word, rules []SpellingRule) []Word {
	if len(words) == 0 || len(rules) == 0 {
		return words
	}
	out := make([]Word, len(words))
	copy(out, words)
	for i := range out {
		for _, rule := range rules {
			if out[i].Text == rule.From {
				out[i].Text = rule.To
				break
			}
		}
	}
	return out
}

func applySpellingToUtterances(utterances []Utterance, rules []SpellingRule) []Utterance {
	if len(utterances) == 0 || len(rules) == 0 {
		return utterances
	}
	out := make([]Utterance, len(utterances))
	for i, u := range utterances {
		out[i] = Utterance{Speaker: u.Speaker, Words: ApplySpelling(u.Words, rules)}
	}
	return out
}
