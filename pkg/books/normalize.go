package books

import (
	"strconv"
	"strings"
	"unicode"
)

// NormalizeISBN reduces raw user input to the canonical stored ISBN shape:
// digits and an uppercase X, everything else stripped. No checksum validation
// is performed. Returns nil when nothing usable remains.
func NormalizeISBN(raw string) *string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) || r == 'X' || r == 'x' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return nil
	}
	isbn := strings.ToUpper(b.String())
	return &isbn
}

// NormalizeRating parses a raw rating field into an integer in [1,5].
// Anything else (blank, non-numeric, fractional, out of range) yields nil.
// The normalizer alone can't tell a blank field from an invalid one; callers
// re-check the raw input to decide which case applies.
func NormalizeRating(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 5 {
		return nil
	}
	return &n
}
