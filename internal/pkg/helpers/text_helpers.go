package helpers

import (
	"regexp"
	"strings"
	"unicode"
)

var mobileDisallowed = regexp.MustCompile(`[^\d\s\-\(\)\+]`)

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
// A word starts after any character that is not a letter, so "o'neil-SMITH"
// becomes "O'Neil-Smith".
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// SanitizeMobile removes everything except digits, whitespace, dashes, brackets and
// plus signs, then trims the result.
func SanitizeMobile(s string) string {
	return strings.TrimSpace(mobileDisallowed.ReplaceAllString(s, ""))
}
