package parser

import (
	"regexp"
	"unicode"
)

var (
	hexNameRegex  = regexp.MustCompile(`^[0-9a-fA-F]{32,}$`)
	uuidNameRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}[-_]?[0-9a-fA-F]{4}[-_]?[0-9a-fA-F]{4}[-_]?[0-9a-fA-F]{4}[-_]?[0-9a-fA-F]{12}$`)
)

// IsObfuscatedTitle reports whether a title is a randomized placeholder name
// (hex digest, UUID, random alphanumeric) rather than a real release title.
// Obfuscated names carry no extractable structure, so the pipeline routes
// them straight to the fallback strategy.
func IsObfuscatedTitle(title string) bool {
	if len(title) < 8 {
		return false
	}
	if hexNameRegex.MatchString(title) || uuidNameRegex.MatchString(title) {
		return true
	}
	return isRandomAlphanumeric(title)
}

func isRandomAlphanumeric(s string) bool {
	if len(s) < 20 {
		return false
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ' ' || r == '.' || r == '-' || r == '_':
			// separators mean structure, not randomness
			return false
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return false
	}
	return hasHighEntropy(s)
}

// hasHighEntropy reports high character variance. Random strings sit above
// a 0.4 unique-to-total ratio; natural words repeat letters and sit below.
func hasHighEntropy(s string) bool {
	freq := make(map[rune]int)
	for _, r := range s {
		freq[r]++
	}
	return float64(len(freq))/float64(len(s)) > 0.4
}
