package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Positive(t *testing.T) {
	a := NewAnalyzer()
	score := a.Score("I love this")
	assert.Greater(t, score, 0.0)
}

func TestScore_Negative(t *testing.T) {
	a := NewAnalyzer()
	score := a.Score("It was terrible and I hated it")
	assert.Less(t, score, 0.0)
}

func TestScore_MeanOfMatches(t *testing.T) {
	a := NewAnalyzer()
	// best (1.0) and worst (-1.0) cancel out.
	assert.Equal(t, 0.0, a.Score("the best and the worst"))
}

func TestScore_NoMatchesIsZero(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, 0.0, a.Score("completely neutral statement"))
	assert.Equal(t, 0.0, a.Score(""))
}

func TestScore_CaseInsensitiveAndPunctuation(t *testing.T) {
	a := NewAnalyzer()
	assert.Equal(t, a.Score("amazing"), a.Score("AMAZING!!!"))
}

func TestScore_AlwaysInRange(t *testing.T) {
	a := NewAnalyzer()
	texts := []string{
		"best best best best",
		"worst worst worst",
		"amazing fantastic excellent love great",
		"terrible awful hate broken poor disappointing",
	}
	for _, text := range texts {
		score := a.Score(text)
		assert.GreaterOrEqual(t, score, -1.0, "text: %s", text)
		assert.LessOrEqual(t, score, 1.0, "text: %s", text)
	}
}

func TestScore_Deterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "I just bought a laptop! It was fantastic."
	first := a.Score(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, a.Score(text))
	}
}

func TestLexicon_PolaritiesInRange(t *testing.T) {
	for token, polarity := range polarities {
		assert.GreaterOrEqual(t, polarity, -1.0, "token: %s", token)
		assert.LessOrEqual(t, polarity, 1.0, "token: %s", token)
	}
}

func TestKeywords_SortedAndDeduplicated(t *testing.T) {
	a := NewAnalyzer()
	mentions := a.Keywords("My phone broke so I bought a new phone and a laptop")
	assert.Equal(t, []string{"laptop", "phone"}, mentions)
}

func TestKeywords_NoMentions(t *testing.T) {
	a := NewAnalyzer()
	assert.Empty(t, a.Keywords("nothing relevant here"))
}
