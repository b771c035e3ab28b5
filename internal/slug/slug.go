// Package slug derives URL-safe identifiers from post titles.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// MaxLength bounds the slug before boundary hyphens are trimmed.
	MaxLength = 80
	// Fallback is returned when nothing slug-worthy is left of a title.
	Fallback = "post"
)

var (
	spaceRuns  = regexp.MustCompile(` +`)
	hyphenRuns = regexp.MustCompile(`-{2,}`)
)

// Slug converts a title into a lowercase identifier made of [a-z0-9-].
//
// Characters outside ASCII letters, digits, whitespace and hyphens are removed,
// whitespace runs become a single hyphen and repeated hyphens collapse. The
// result is cut to MaxLength and trimmed of hyphens; an empty result yields
// Fallback. Slug is total over its input.
func Slug(title string) string {
	s := strings.TrimFunc(cases.Lower(language.Und).String(title), isSpace)
	s = strings.Map(keep, s)
	s = spaceRuns.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	if len(s) > MaxLength {
		s = s[:MaxLength]
	}
	s = strings.Trim(s, "-")
	if s == "" {
		return Fallback
	}
	return s
}

// keep maps a rune to itself, to a plain space for any Unicode whitespace, or
// drops it. Everything it returns is ASCII, so byte truncation is safe.
func keep(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		return r
	case isSpace(r):
		return ' '
	default:
		return -1
	}
}

// isSpace is unicode.IsSpace extended with the ASCII information separators
// U+001C..U+001F.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r >= 0x1c && r <= 0x1f
}
