package linkverify

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

var topics = []catalog.Topic{
	{Category: catalog.Publishing, Title: "First Post"},
	{Category: catalog.Ops, Title: "Second Post"},
}

// generatedSite runs a generation into a fresh site that also holds every
// static file the starter template links to.
func generatedSite(t *testing.T) *config.Resolved {
	t.Helper()
	cfg, err := config.Default().Resolve(t.TempDir())
	require.NoError(t, err)
	cfg.Today = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	files := []string{
		"index.html", "blog/index.html",
		"pages/about.html", "pages/contact.html", "pages/privacy.html",
		"pages/disclaimer.html", "pages/terms.html",
		"assets/style.css", "assets/main.js",
	}
	for _, f := range files {
		p := filepath.Join(cfg.SiteDir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("ok"), 0o644))
	}
	require.NoError(t, os.WriteFile(cfg.TemplatePath, []byte(render.StarterTemplate()), 0o644))

	_, err = site.NewGenerator(cfg).WithTopics(topics).Run(context.Background())
	require.NoError(t, err)
	return cfg
}

func TestVerifyCleanSite(t *testing.T) {
	cfg := generatedSite(t)

	report, err := NewVerifier(cfg, nil).Verify(context.Background(), topics)
	require.NoError(t, err)
	assert.True(t, report.OK(), "%v", report.Problems)
	assert.Equal(t, 2, report.Pages)
	assert.Equal(t, 9, report.URLs)
	assert.Positive(t, report.Links)
}

func TestVerifyMissingStaticPage(t *testing.T) {
	cfg := generatedSite(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.SiteDir, "pages", "about.html")))

	report, err := NewVerifier(cfg, nil).Verify(context.Background(), topics)
	require.NoError(t, err)
	assert.False(t, report.OK())

	var missing, broken int
	for _, p := range report.Problems {
		assert.Equal(t, "/pages/about.html", p.Target)
		switch p.Kind {
		case ProblemMissingFile:
			missing++
			assert.Equal(t, "sitemap.xml", p.Source)
		case ProblemBrokenLink:
			broken++
		}
	}
	assert.Equal(t, 1, missing)
	assert.Equal(t, 2, broken)
}

func TestVerifyMissingPostPage(t *testing.T) {
	cfg := generatedSite(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.PostsDir, "first-post.html")))

	report, err := NewVerifier(cfg, nil).Verify(context.Background(), topics)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, ProblemMissingFile, report.Problems[0].Kind)
	assert.Equal(t, "/blog/posts/first-post.html", report.Problems[0].Target)
}

func TestVerifyReportsSlugCollisions(t *testing.T) {
	cfg := generatedSite(t)
	clashing := append(topics, catalog.Topic{Category: catalog.Ops, Title: "first post"})

	report, err := NewVerifier(cfg, nil).Verify(context.Background(), clashing)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, ProblemSlugCollision, report.Problems[0].Kind)
	assert.Equal(t, "first-post", report.Problems[0].Target)
	assert.Equal(t, "slug_collision: catalog -> first-post (First Post | first post)", report.Problems[0].String())
}

func TestVerifyRelativeLinks(t *testing.T) {
	cfg := generatedSite(t)
	page := filepath.Join(cfg.PostsDir, "extra.html")
	require.NoError(t, os.WriteFile(page, []byte(`<a href="first-post.html">ok</a><a href="../missing.html">bad</a>`), 0o644))

	report, err := NewVerifier(cfg, nil).Verify(context.Background(), topics)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, Problem{Kind: ProblemBrokenLink, Source: "blog/posts/extra.html", Target: "../missing.html", Detail: `a "bad"`}, report.Problems[0])
}

func TestVerifyWithoutGeneratedOutput(t *testing.T) {
	cfg, err := config.Default().Resolve(t.TempDir())
	require.NoError(t, err)

	_, err = NewVerifier(cfg, nil).Verify(context.Background(), topics)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
}
