// Package sitemap writes the flat XML sitemap of the site.
package sitemap

import (
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/index"
)

// Namespace is the sitemap protocol namespace.
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// DefaultStaticPages are the hand-maintained pages listed before any post.
var DefaultStaticPages = []string{
	"/",
	"/blog/",
	"/pages/about.html",
	"/pages/contact.html",
	"/pages/privacy.html",
	"/pages/disclaimer.html",
	"/pages/terms.html",
}

// URLs returns staticPages followed by the URL of every entry, in the order given.
func URLs(staticPages []string, entries []index.Entry) []string {
	urls := make([]string, 0, len(staticPages)+len(entries))
	urls = append(urls, staticPages...)
	for _, e := range entries {
		urls = append(urls, e.URL)
	}
	return urls
}

// Build renders the sitemap document. URLs are written verbatim: post URLs are
// path-safe by construction and static pages come from configuration.
func Build(staticPages []string, entries []index.Entry) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<urlset xmlns="` + Namespace + `">` + "\n")
	for _, u := range URLs(staticPages, entries) {
		b.WriteString("  <url><loc>" + u + "</loc></url>\n")
	}
	b.WriteString("</urlset>\n")
	return []byte(b.String())
}
