package sentiment

import (
	"sort"
	"strings"
	"unicode"
)

// Analyzer scores text by pure lexicon lookup. Stateless and deterministic;
// no external calls.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Score returns the mean polarity of recognized tokens, clamped to
// [-1.0, 1.0]. Text with no recognized tokens (including empty text)
// scores 0.0.
func (a *Analyzer) Score(text string) float64 {
	var sum float64
	var matched int

	for _, token := range tokenize(text) {
		if polarity, ok := polarities[token]; ok {
			sum += polarity
			matched++
		}
	}

	if matched == 0 {
		return 0.0
	}

	score := sum / float64(matched)
	if score > 1.0 {
		return 1.0
	}
	if score < -1.0 {
		return -1.0
	}
	return score
}

// Keywords returns the set of vocabulary terms mentioned in the text,
// sorted and deduplicated.
func (a *Analyzer) Keywords(text string) []string {
	tokens := make(map[string]struct{})
	for _, token := range tokenize(text) {
		tokens[token] = struct{}{}
	}

	var mentions []string
	for _, term := range vocabulary {
		if _, ok := tokens[term]; ok {
			mentions = append(mentions, term)
		}
	}

	sort.Strings(mentions)
	return mentions
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
