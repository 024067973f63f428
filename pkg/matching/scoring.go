package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer provides the string comparison algorithms used for candidate
// ranking. All algorithms operate on runes, not bytes; candidate names are
// routinely Arabic script.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// ExactMatch returns 1.0 for exact match, 0.0 otherwise
func (s *Scorer) ExactMatch(a, b string, caseSensitive bool) float64 {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// JaroWinkler calculates the prefix-boosted Jaro similarity between two
// strings, between 0.0 and 1.0. Two empty strings score 0.0: no characters
// means no information, which deliberately differs from Levenshtein below.
func (s *Scorer) JaroWinkler(a, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	jaro := jaroRunes(ra, rb)

	// Winkler modification: boost for common prefix up to 4 runes
	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(ra) && i < len(rb) && i < maxPrefix; i++ {
		if ra[i] == rb[i] {
			prefixLen++
		} else {
			break
		}
	}

	scalingFactor := 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// Jaro calculates the Jaro similarity between two strings
func (s *Scorer) Jaro(a, b string) float64 {
	return jaroRunes([]rune(a), []rune(b))
}

func jaroRunes(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Maximum distance for character matching
	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	// Find matches
	for i := 0; i < len(a); i++ {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Count transpositions
	k := 0
	for i := 0; i < len(a); i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// Levenshtein returns the normalized edit-distance similarity between two
// strings, between 0.0 and 1.0. Two empty strings are trivially identical
// and score 1.0.
func (s *Scorer) Levenshtein(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance calculates the edit distance between two strings
func (s *Scorer) LevenshteinDistance(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}
