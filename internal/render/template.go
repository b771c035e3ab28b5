// Package render turns catalog posts into HTML pages by literal placeholder
// substitution into a site-provided template.
package render

import (
	_ "embed"
	"os"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Template placeholders. Each is replaced in this order; a placeholder missing
// from the template is simply not substituted.
const (
	PlaceholderTitle       = "{{TITLE}}"
	PlaceholderDescription = "{{DESCRIPTION}}"
	PlaceholderCategory    = "{{CATEGORY}}"
	PlaceholderHeading     = "{{H1}}"
	PlaceholderDate        = "{{DATE}}"
	PlaceholderContent     = "{{CONTENT}}"
)

// Placeholders lists every placeholder in substitution order.
var Placeholders = []string{
	PlaceholderTitle,
	PlaceholderDescription,
	PlaceholderCategory,
	PlaceholderHeading,
	PlaceholderDate,
	PlaceholderContent,
}

//go:embed starter_post.html
var starterTemplate string

// StarterTemplate returns a minimal post template using all placeholders.
func StarterTemplate() string {
	return starterTemplate
}

// Template is a loaded page template.
type Template struct {
	text string
}

// NewTemplate wraps template text.
func NewTemplate(text string) *Template {
	return &Template{text: text}
}

// LoadTemplate reads the template file at path.
func LoadTemplate(path string) (*Template, error) {
	// #nosec G304 -- path comes from the resolved site configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to read template").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return NewTemplate(string(data)), nil
}

// Text returns the raw template text.
func (t *Template) Text() string {
	return t.text
}

// Missing returns the placeholders the template does not contain.
func (t *Template) Missing() []string {
	var missing []string
	for _, p := range Placeholders {
		if !strings.Contains(t.text, p) {
			missing = append(missing, p)
		}
	}
	return missing
}

// Render produces the HTML page for p.
func (t *Template) Render(p catalog.Post) string {
	title := EscapeHTML(p.Title)
	replacements := [][2]string{
		{PlaceholderTitle, title},
		{PlaceholderDescription, EscapeHTML(MetaDescription(p.Title))},
		{PlaceholderCategory, EscapeHTML(p.Category.String())},
		{PlaceholderHeading, title},
		{PlaceholderDate, EscapeHTML(p.ISODate())},
		{PlaceholderContent, RenderBlocks(BodyLines(p))},
	}

	out := t.text
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	return out
}
