package textscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractor_CarNumbers(t *testing.T) {
	e := New()

	t.Run("DigitsThenLetters", func(t *testing.T) {
		tokens := e.CarNumbers("invoice for plate 123-ABC thanks")
		assert.Equal(t, []string{"123-ABC"}, tokens)
	})

	t.Run("LettersThenDigits", func(t *testing.T) {
		tokens := e.CarNumbers("vehicle XYZ-456 parked")
		assert.Contains(t, tokens, "XYZ-456")
	})

	t.Run("CaseInsensitiveDedup", func(t *testing.T) {
		tokens := e.CarNumbers("plate 123-ABC and again 123-abc")
		assert.Len(t, tokens, 1)
		assert.Equal(t, "123-ABC", tokens[0])
	})

	t.Run("ArabicLetters", func(t *testing.T) {
		tokens := e.CarNumbers("رقم اللوحة 123-دبح")
		assert.NotEmpty(t, tokens)
	})

	t.Run("NoPlates", func(t *testing.T) {
		assert.Empty(t, e.CarNumbers("no vehicles mentioned here"))
	})
}

func TestExtractor_Months(t *testing.T) {
	e := New()

	t.Run("EnglishFullName", func(t *testing.T) {
		assert.Equal(t, []int{3}, e.Months("rent for March"))
	})

	t.Run("EnglishAbbreviation", func(t *testing.T) {
		assert.Equal(t, []int{2, 12}, e.Months("from FEB until dec"))
	})

	t.Run("Arabic", func(t *testing.T) {
		assert.Equal(t, []int{3}, e.Months("إيجار شهر مارس"))
	})

	t.Run("DeduplicatedAscending", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, e.Months("march, january, March again"))
	})

	t.Run("NoMonths", func(t *testing.T) {
		assert.Empty(t, e.Months("nothing seasonal here"))
	})
}

func TestExtractor_AmountTokens(t *testing.T) {
	e := New()

	t.Run("CurrencyTagged", func(t *testing.T) {
		tokens := e.AmountTokens("Total 1,250.00 KWD due")
		assert.Equal(t, []string{"1,250.00 KWD"}, tokens)
	})

	t.Run("ArabicCurrency", func(t *testing.T) {
		tokens := e.AmountTokens("المبلغ 250 دينار")
		assert.Len(t, tokens, 1)
	})

	t.Run("BareNumbersIgnored", func(t *testing.T) {
		assert.Empty(t, e.AmountTokens("reference 99812 dated 2026"))
	})
}
