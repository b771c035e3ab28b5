// Package index builds the public post index consumed by the site's front-end.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/slug"
)

// DefaultURLPath is the site path under which post pages are published.
const DefaultURLPath = "/blog/posts/"

const summaryFormat = "Practical notes: %s."

// Entry is the public projection of a post.
type Entry struct {
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Category string `json:"category"`
	Date     string `json:"date"`
}

// Document is the serialized index.
type Document struct {
	Posts []Entry `json:"posts"`
}

// PostURL returns the site URL of the page for title under urlPath.
func PostURL(urlPath, title string) string {
	if !strings.HasSuffix(urlPath, "/") {
		urlPath += "/"
	}
	return urlPath + slug.Slug(title) + ".html"
}

// Summary is the short card text shown for a post.
func Summary(title string) string {
	return fmt.Sprintf(summaryFormat, title)
}

// Build projects posts into entries, newest first. Posts are expected in
// catalog order (oldest first), so the output is the input reversed.
func Build(posts []catalog.Post, urlPath string) []Entry {
	entries := make([]Entry, len(posts))
	for i, p := range posts {
		entries[len(posts)-1-i] = Entry{
			Title:    p.Title,
			Summary:  Summary(p.Title),
			URL:      PostURL(urlPath, p.Title),
			Category: p.Category.String(),
			Date:     p.ISODate(),
		}
	}
	return entries
}

// Marshal encodes entries as an indented UTF-8 document with a single "posts"
// field. Non-ASCII and HTML-significant characters are written as-is.
func Marshal(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Document{Posts: entries}); err != nil {
		return nil, fmt.Errorf("encode post index: %w", err)
	}
	return unescapeLineSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// unescapeLineSeparators writes U+2028 and U+2029 back as raw characters.
// encoding/json escapes them even with HTML escaping off. An escape sequence
// preceded by an escaped backslash is literal text and is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' && string(data[i+2:i+5]) == "202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		// Any other escape: copy both bytes so an escaped backslash is never
		// mistaken for the start of a sequence.
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

// Unmarshal decodes a document produced by Marshal.
func Unmarshal(data []byte) ([]Entry, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode post index: %w", err)
	}
	return doc.Posts, nil
}
