package sitemap

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/index"
)

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

func TestBuildExactDocument(t *testing.T) {
	entries := []index.Entry{
		{URL: "/blog/posts/newest.html"},
		{URL: "/blog/posts/older.html"},
	}

	got := string(Build([]string{"/", "/blog/"}, entries))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>/</loc></url>
  <url><loc>/blog/</loc></url>
  <url><loc>/blog/posts/newest.html</loc></url>
  <url><loc>/blog/posts/older.html</loc></url>
</urlset>
`
	assert.Equal(t, want, got)
}

func TestBuildIsWellFormed(t *testing.T) {
	entries := make([]index.Entry, 30)
	for i := range entries {
		entries[i] = index.Entry{URL: index.PostURL(index.DefaultURLPath, string(rune('a'+i%26))+" post")}
	}

	var doc urlset
	require.NoError(t, xml.Unmarshal(Build(DefaultStaticPages, entries), &doc))
	assert.Equal(t, Namespace, doc.XMLName.Space)
	require.Len(t, doc.URLs, len(DefaultStaticPages)+len(entries))

	for i, e := range entries {
		assert.Equal(t, e.URL, doc.URLs[len(DefaultStaticPages)+i].Loc)
	}
}

func TestURLsKeepsEntryOrder(t *testing.T) {
	entries := []index.Entry{{URL: "/b.html"}, {URL: "/a.html"}}
	assert.Equal(t, []string{"/", "/b.html", "/a.html"}, URLs([]string{"/"}, entries))
	assert.Len(t, DefaultStaticPages, 7)
}

func TestBuildEmpty(t *testing.T) {
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
</urlset>
`, string(Build(nil, nil)))
}
