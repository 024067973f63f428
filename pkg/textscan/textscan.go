// Package textscan pulls structured hints out of raw OCR text: vehicle
// plate tokens, calendar month references, and currency-tagged amounts.
package textscan

import (
	"regexp"
	"sort"
	"strings"
)

// Plate shapes: digits then letters or letters then digits, optionally
// separated by a hyphen or space, in Latin or Arabic script.
var plateRes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,4}[-\s]?[A-Za-z]{1,3}\b`),
	regexp.MustCompile(`\b[A-Za-z]{1,3}[-\s]?\d{1,4}\b`),
	regexp.MustCompile(`\d{1,4}[-\s]?[\x{0621}-\x{064A}]{1,3}`),
	regexp.MustCompile(`[\x{0621}-\x{064A}]{1,3}[-\s]?\d{1,4}`),
}

// Amounts are only interesting when a currency marker directly follows the
// number; bare numbers in an invoice are mostly noise.
var amountRe = regexp.MustCompile(`(?i)\d{1,3}(?:,\d{3})*(?:\.\d{2})?\s*(?:kwd|kd|dinars?|دينار|د\.ك)`)

// monthNames maps bilingual month references to month numbers. English
// entries carry both the full name and the 3-letter abbreviation; the
// abbreviation also matches inside the full name, which is harmless since
// both map to the same number.
var monthNames = map[string]int{
	"يناير": 1, "فبراير": 2, "مارس": 3, "أبريل": 4, "ابريل": 4,
	"مايو": 5, "يونيو": 6, "يوليو": 7, "أغسطس": 8, "اغسطس": 8,
	"سبتمبر": 9, "أكتوبر": 10, "اكتوبر": 10, "نوفمبر": 11, "ديسمبر": 12,

	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// Extractor scans raw document text for structured field hints.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// CarNumbers returns every plate-like token found in the text,
// de-duplicated case-insensitively, in order of first appearance.
func (e *Extractor) CarNumbers(text string) []string {
	var tokens []string
	seen := make(map[string]bool)

	for _, re := range plateRes {
		for _, m := range re.FindAllString(text, -1) {
			key := strings.ToUpper(strings.TrimSpace(m))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			tokens = append(tokens, strings.TrimSpace(m))
		}
	}

	return tokens
}

// Months returns the de-duplicated month numbers referenced anywhere in the
// text, ascending.
func (e *Extractor) Months(text string) []int {
	lower := strings.ToLower(text)

	seen := make(map[int]bool)
	for name, num := range monthNames {
		if strings.Contains(lower, name) {
			seen[num] = true
		}
	}

	months := make([]int, 0, len(seen))
	for num := range seen {
		months = append(months, num)
	}
	sort.Ints(months)
	return months
}

// AmountTokens returns the raw currency-tagged amount substrings found in
// the text. They are diagnostic only; the authoritative amount comes from
// the structured extraction.
func (e *Extractor) AmountTokens(text string) []string {
	return amountRe.FindAllString(text, -1)
}
