// Package normalizers provides field normalization functions for invoice matching
package normalizers

import (
	"strings"
	"unicode"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	// Register built-in normalizers
	Register("lowercase", Lowercase)
	Register("uppercase", Uppercase)
	Register("trim", Trim)
	Register("nphone", NormalizePhone)
	Register("remove_whitespace", RemoveWhitespace)
	Register("remove_punctuation", RemovePunctuation)
	Register("nname", NormalizeName)
	Register("digits_only", DigitsOnly)
	Register("alphanumeric", Alphanumeric)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// ApplyChain applies multiple normalizers in sequence
func ApplyChain(value string, normalizers ...string) string {
	result := value
	for _, name := range normalizers {
		result = Apply(result, name)
	}
	return result
}

// Honorific and kinship prefixes stripped from the front of a name. The
// Latin entries are stored the way they look after lowercasing and
// punctuation removal.
var honorificPrefixes = []string{
	"أبو", "أم", "بن", "بنت", "آل", "عبد", "الشيخ", "الدكتور", "المهندس",
	"mr", "mrs", "ms", "dr", "eng", "prof", "sheikh",
}

// Built-in normalizers

// Lowercase converts string to lowercase
func Lowercase(s string) string {
	return strings.ToLower(s)
}

// Uppercase converts string to uppercase
func Uppercase(s string) string {
	return strings.ToUpper(s)
}

// Trim removes leading and trailing whitespace
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizePhone removes all non-digit characters from a phone number
func NormalizePhone(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemovePunctuation removes all punctuation characters
func RemovePunctuation(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsPunct(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// DigitsOnly keeps only digit characters
func DigitsOnly(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Alphanumeric keeps only alphanumeric characters
func Alphanumeric(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeName canonicalizes a display name that may mix Arabic and Latin
// script:
//   - lowercase Latin letters
//   - replace anything outside Arabic script, Latin letters, digits and
//     whitespace with a space
//   - collapse whitespace runs and trim
//   - strip leading honorific/kinship prefixes
//   - when Arabic script is present, fold letter variants (alef forms,
//     ى/ئ, ta-marbuta) and strip diacritics
//
// Empty or whitespace-only input normalizes to "". Never fails.
func NormalizeName(s string) string {
	s = strings.ToLower(s)

	var cleaned strings.Builder
	for _, r := range s {
		switch {
		case isArabicRune(r), r >= 'a' && r <= 'z', unicode.IsDigit(r):
			cleaned.WriteRune(r)
		default:
			cleaned.WriteRune(' ')
		}
	}

	s = collapseSpaces(cleaned.String())
	s = stripHonorifics(s)

	if containsArabic(s) {
		s = foldArabic(s)
	}

	return s
}

// ContainsArabic reports whether the string holds any Arabic-script rune.
func ContainsArabic(s string) bool {
	return containsArabic(s)
}

func containsArabic(s string) bool {
	for _, r := range s {
		if isArabicRune(r) {
			return true
		}
	}
	return false
}

func isArabicRune(r rune) bool {
	return (r >= 0x0600 && r <= 0x06FF) || (r >= 0x0750 && r <= 0x077F)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func stripHonorifics(s string) string {
	for _, prefix := range honorificPrefixes {
		if s == prefix {
			return ""
		}
		if strings.HasPrefix(s, prefix+" ") {
			s = strings.TrimSpace(s[len(prefix)+1:])
		}
	}
	return s
}

// foldArabic collapses common Arabic letter variants and strips diacritics.
func foldArabic(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch r {
		case 'إ', 'أ', 'آ':
			result.WriteRune('ا')
		case 'ى', 'ئ':
			result.WriteRune('ي')
		case 'ة':
			result.WriteRune('ه')
		default:
			if isArabicDiacritic(r) {
				continue
			}
			result.WriteRune(r)
		}
	}
	return result.String()
}

// isArabicDiacritic covers the tashkeel range plus the dagger alef.
func isArabicDiacritic(r rune) bool {
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670
}
