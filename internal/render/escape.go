package render

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML escapes the five characters that are significant in HTML text and
// attribute values. Single quotes become &#039; so the pages match what the
// site has always published.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}
