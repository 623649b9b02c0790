package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugInvalidChars = regexp.MustCompile("[^a-z0-9]+")

// GenerateSlug turns a course or lesson title into a URL-safe slug,
// stripping diacritics so accented titles stay readable.
func GenerateSlug(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	text, _, _ = transform.String(t, text)

	text = strings.ToLower(text)
	text = slugInvalidChars.ReplaceAllString(text, "-")

	return strings.Trim(text, "-")
}
