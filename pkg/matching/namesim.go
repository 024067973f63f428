package matching

import (
	"strings"

	"github.com/Ramsey-B/sage/pkg/normalizers"
	"github.com/Ramsey-B/sage/pkg/translit"
)

// tokenMatchThreshold is the prefix-weighted similarity two tokens must
// exceed to count as a pair in the partial score.
const tokenMatchThreshold = 0.8

// NameSimilarity fuses several comparison strategies into one [0,1] score
// for an extracted name against a candidate name. Both names are normalized
// first; the result is the best of:
//   - edit-distance similarity on the normalized forms
//   - prefix-weighted similarity on the normalized forms
//   - the best prefix-weighted similarity across both sides'
//     transliteration-expanded variant sets
//   - a token-level partial score
func (s *Scorer) NameSimilarity(extracted, candidate string) float64 {
	na := normalizers.NormalizeName(extracted)
	nb := normalizers.NormalizeName(candidate)

	best := s.Levenshtein(na, nb)
	if jw := s.JaroWinkler(na, nb); jw > best {
		best = jw
	}
	if v := s.bestVariantSimilarity(na, nb); v > best {
		best = v
	}
	if p := s.tokenPartialScore(na, nb); p > best {
		best = p
	}
	return best
}

func (s *Scorer) bestVariantSimilarity(a, b string) float64 {
	variantsA := translit.Expand(a)
	variantsB := translit.Expand(b)

	best := 0.0
	for _, va := range variantsA {
		for _, vb := range variantsB {
			if sim := s.JaroWinkler(va, vb); sim > best {
				best = sim
			}
		}
	}
	return best
}

// tokenPartialScore counts token pairs that clear the similarity threshold.
// Each extracted token pairs at most once: the first qualifying candidate
// token wins and the inner scan stops. Tokens of three or more characters
// only.
func (s *Scorer) tokenPartialScore(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	denom := max(len(tokensA), len(tokensB))
	if denom == 0 {
		return 0.0
	}

	matched := 0
	for _, ta := range tokensA {
		if len([]rune(ta)) <= 2 {
			continue
		}
		for _, tb := range tokensB {
			if len([]rune(tb)) <= 2 {
				continue
			}
			if s.JaroWinkler(ta, tb) > tokenMatchThreshold {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(denom)
}
