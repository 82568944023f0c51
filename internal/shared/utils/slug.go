package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a title into a URL-safe slug:
// "The Winter Anthology!" -> "the-winter-anthology".
func GenerateSlug(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	hyphenated := strings.ReplaceAll(lower, " ", "-")
	cleaned := slugInvalidChars.ReplaceAllString(hyphenated, "")
	normalized := slugHyphenRuns.ReplaceAllString(cleaned, "-")
	return strings.Trim(normalized, "-")
}
