package slug

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug_Examples(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"empty", "", "post"},
		{"only punctuation", "!!!", "post"},
		{"only hyphens", "- - -", "post"},
		{"colon and mixed case", "KU vs non-KU: how to decide for low-ticket books", "ku-vs-non-ku-how-to-decide-for-low-ticket-books"},
		{"curly quotes dropped", "What ‘low content’ actually means and how to avoid it", "what-low-content-actually-means-and-how-to-avoid-it"},
		{"parentheses", "Cover basics that improve clicks (without fancy art)", "cover-basics-that-improve-clicks-without-fancy-art"},
		{"digits and percent", "Proofing strategy: catch 90% of issues fast", "proofing-strategy-catch-90-of-issues-fast"},
		{"plus sign between spaces", "How to reuse content ethically: versioning + differentiation", "how-to-reuse-content-ethically-versioning-differentiation"},
		{"surrounding whitespace", "  \tHello   World \n", "hello-world"},
		{"tabs and newlines inside", "a\tb\nc", "a-b-c"},
		{"unicode whitespace", "a\u00a0b\u2003c", "a-b-c"},
		{"ascii separators", "a\x1cb\x1dc\x1ed\x1fe", "a-b-c-d-e"},
		{"ascii separators at edges", "\x1f" + strings.Repeat("x", 80) + "\x1c", strings.Repeat("x", 80)},
		{"accented letters dropped", "Café Crème", "caf-crme"},
		{"hyphen runs", "a -- b---c", "a-b-c"},
		{"leading and trailing hyphens", "-hello-", "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.title))
		})
	}
}

func TestSlug_TruncatesThenTrims(t *testing.T) {
	// 79 letters followed by a space: the hyphen lands at index 79 and must be trimmed.
	title := strings.Repeat("a", 79) + " bcd"
	got := Slug(title)
	assert.Equal(t, strings.Repeat("a", 79), got)

	long := strings.Repeat("word ", 40)
	got = Slug(long)
	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"))
}

var slugShape = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

func TestSlug_Properties(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"A simple keyword workflow that beats guessing",
		"Product description formula that doesn’t sound spammy",
		"<script>alert('x')</script>",
		"Tom & Jerry \"quoted\"",
		"ÅÄÖ ÆØ ß İstanbul",
		"日本語のタイトル",
		strings.Repeat("x-", 100),
		"---leading and trailing---",
		"Grade-level clarity: reduce returns and confusion",
		"\u212a is the kelvin sign",
	}

	for _, in := range inputs {
		got := Slug(in)
		assert.LessOrEqual(t, len(got), MaxLength, "input %q", in)
		assert.Regexp(t, slugShape, got, "input %q", in)
		assert.Equal(t, strings.ToLower(got), got, "input %q", in)
		assert.Equal(t, got, Slug(in), "slug must be deterministic for %q", in)
	}
}
