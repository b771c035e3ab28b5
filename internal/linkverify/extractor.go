package linkverify

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Link represents an extracted link from HTML content.
type Link struct {
	URL        string // The URL or path
	Text       string // Link text/title
	Tag        string // HTML tag (a, img, script, link, etc.)
	Attribute  string // Attribute containing the link (href, src, etc.)
	IsInternal bool   // True if link points into the site
}

// ExtractLinks extracts all links from an HTML file.
func ExtractLinks(htmlPath string) ([]*Link, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithSeverity(errors.SeverityError).
			WithContext("path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close()
	}()

	return ExtractLinksFromReader(file)
}

// ExtractLinksFromReader extracts all links from an HTML reader.
func ExtractLinksFromReader(r io.Reader) ([]*Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
			WithSeverity(errors.SeverityError).
			Build()
	}

	var links []*Link
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if link := elementLink(n); link != nil {
				links = append(links, link)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return links, nil
}

// linkAttrs maps a tag to the attribute holding its link and the attribute
// used as its text when the tag has no text content.
var linkAttrs = map[string][2]string{
	"a":      {"href", ""},
	"link":   {"href", "rel"},
	"img":    {"src", "alt"},
	"script": {"src", ""},
	"video":  {"src", ""},
	"audio":  {"src", ""},
	"source": {"src", ""},
}

func elementLink(n *html.Node) *Link {
	attrs, ok := linkAttrs[n.Data]
	if !ok {
		return nil
	}
	target := getAttr(n, attrs[0])
	if target == "" {
		return nil
	}
	text := extractText(n)
	if attrs[1] != "" {
		text = getAttr(n, attrs[1])
	}
	return &Link{
		URL:        target,
		Text:       text,
		Tag:        n.Data,
		Attribute:  attrs[0],
		IsInternal: isInternalLink(target),
	}
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText returns the text content of n and its children with runs of
// whitespace collapsed to single spaces.
func extractText(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			parts = append(parts, n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// isInternalLink reports whether linkURL has no scheme and no host. The site
// has no canonical host, so any absolute URL is external.
func isInternalLink(linkURL string) bool {
	u, err := url.Parse(linkURL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// ShouldVerifyLink reports whether link names a file that can be checked on disk.
func ShouldVerifyLink(link *Link) bool {
	if link.URL == "" || !link.IsInternal {
		return false
	}
	if strings.HasPrefix(link.URL, "#") {
		return false
	}
	for _, p := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(link.URL, p) {
			return false
		}
	}
	return true
}
