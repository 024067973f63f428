package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorer_NameSimilarity(t *testing.T) {
	s := NewScorer()

	t.Run("ExactAfterNormalization", func(t *testing.T) {
		assert.Equal(t, 1.0, s.NameSimilarity("Ahmed Al-Salem", "ahmed al salem"))
	})

	t.Run("HonorificStripped", func(t *testing.T) {
		assert.Equal(t, 1.0, s.NameSimilarity("Dr. Ahmed Al-Salem", "Ahmed Al-Salem"))
	})

	t.Run("CrossScriptTransliteration", func(t *testing.T) {
		// The variant-expansion path must make the pair discoverable even
		// though the scripts share no characters.
		sim := s.NameSimilarity("Mohammed Ali", "محمد علي")
		assert.GreaterOrEqual(t, sim, 0.5)
	})

	t.Run("ArabicVariantFolding", func(t *testing.T) {
		// Alef forms fold to the same letter before comparison.
		assert.Equal(t, 1.0, s.NameSimilarity("أحمد", "احمد"))
	})

	t.Run("Unrelated", func(t *testing.T) {
		assert.Less(t, s.NameSimilarity("Ahmed", "Zxqw"), 0.3)
	})

	t.Run("EmptyExtracted", func(t *testing.T) {
		// "" vs a real name: edit distance 0, prefix-weighted 0, no variants,
		// no tokens. Only the trivial empty-empty pair scores 1.0.
		assert.Equal(t, 0.0, s.NameSimilarity("", "ahmed"))
	})
}

func TestScorer_TokenPartialScore(t *testing.T) {
	s := NewScorer()

	t.Run("SharedToken", func(t *testing.T) {
		// "salem" pairs across both sides; denominator is the larger token
		// count.
		score := s.tokenPartialScore("khaled salem", "mohammed ali salem")
		assert.InDelta(t, 1.0/3.0, score, 0.001)
	})

	t.Run("ShortTokensIgnored", func(t *testing.T) {
		assert.Equal(t, 0.0, s.tokenPartialScore("al al", "al al"))
	})

	t.Run("FirstQualifyingMatchWins", func(t *testing.T) {
		// One extracted token pairs at most once even when several candidate
		// tokens would qualify.
		score := s.tokenPartialScore("salem", "salem salem")
		assert.InDelta(t, 0.5, score, 0.001)
	})

	t.Run("NoTokens", func(t *testing.T) {
		assert.Equal(t, 0.0, s.tokenPartialScore("", ""))
	})
}
