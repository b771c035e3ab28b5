package site

import (
	"bytes"
	"context"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/index"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

var pinnedDate = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

// newSite lays out a site directory holding the starter template and returns
// its resolved configuration.
func newSite(t *testing.T, workers int) *config.Resolved {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Build.Workers = workers
	r, err := cfg.Resolve(dir)
	require.NoError(t, err)
	r.Today = pinnedDate

	require.NoError(t, os.MkdirAll(filepath.Dir(r.TemplatePath), 0o755))
	require.NoError(t, os.WriteFile(r.TemplatePath, []byte(render.StarterTemplate()), 0o644))
	return r
}

func testTopics() []catalog.Topic {
	return []catalog.Topic{
		{Category: catalog.Publishing, Title: "First Post"},
		{Category: catalog.Ops, Title: "Tips & Tricks"},
		{Category: catalog.Design, Title: "Last One"},
	}
}

func TestRunWritesAllOutputs(t *testing.T) {
	cfg := newSite(t, 1)
	var out bytes.Buffer

	res, err := NewGenerator(cfg).WithOutput(&out).WithTopics(testTopics()).Run(context.Background())
	require.NoError(t, err)

	want := strings.Join([]string{
		"Wrote: blog/posts/first-post.html",
		"Wrote: blog/posts/tips-tricks.html",
		"Wrote: blog/posts/last-one.html",
		"",
		"Done.",
		"Generated: data/posts.json",
		"Generated: sitemap.xml",
		"Generated posts in: blog/posts/",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())

	require.Len(t, res.Pages, 3)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, pinnedDate, res.Date)

	page, err := os.ReadFile(filepath.Join(cfg.PostsDir, "tips-tricks.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Tips &amp; Tricks")
	assert.Contains(t, string(page), "2025-03-09")
	assert.NotContains(t, string(page), "{{")

	data, err := os.ReadFile(cfg.IndexPath)
	require.NoError(t, err)
	entries, err := index.Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "Last One", entries[0].Title)
	assert.Equal(t, "2025-03-10", entries[0].Date)
	assert.Equal(t, "/blog/posts/last-one.html", entries[0].URL)
	assert.Equal(t, "First Post", entries[2].Title)
	assert.Equal(t, "2025-03-08", entries[2].Date)

	sm, err := os.ReadFile(cfg.SitemapPath)
	require.NoError(t, err)
	var doc struct {
		URLs []struct {
			Loc string `xml:"loc"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(sm, &doc))
	require.Len(t, doc.URLs, len(cfg.StaticPages)+3)
	assert.Equal(t, "/blog/posts/last-one.html", doc.URLs[len(cfg.StaticPages)].Loc)
}

func TestRunDefaultCatalog(t *testing.T) {
	cfg := newSite(t, 1)
	topics, err := catalog.Default()
	require.NoError(t, err)

	res, err := NewGenerator(cfg).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Pages, len(topics))
	assert.Len(t, res.Entries, len(topics))
	assert.Empty(t, res.Collisions)
}

func TestRunIsByteStable(t *testing.T) {
	cfg := newSite(t, 1)
	gen := NewGenerator(cfg).WithTopics(testTopics())

	_, err := gen.Run(context.Background())
	require.NoError(t, err)
	first := snapshot(t, cfg.SiteDir)

	_, err = gen.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, cfg.SiteDir))
}

func TestRunWorkersProduceSameOutput(t *testing.T) {
	serial := newSite(t, 1)
	parallel := newSite(t, 4)
	topics := append(testTopics(), catalog.Topic{Category: catalog.Quality, Title: "first post!"})

	var serialOut, parallelOut bytes.Buffer
	_, err := NewGenerator(serial).WithOutput(&serialOut).WithTopics(topics).Run(context.Background())
	require.NoError(t, err)
	_, err = NewGenerator(parallel).WithOutput(&parallelOut).WithTopics(topics).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, serialOut.String(), parallelOut.String())
	assert.Equal(t, snapshot(t, serial.SiteDir), snapshot(t, parallel.SiteDir))
}

func TestRunSlugCollisionLastWriterWins(t *testing.T) {
	cfg := newSite(t, 2)
	topics := []catalog.Topic{
		{Category: catalog.Publishing, Title: "Hello World"},
		{Category: catalog.Ops, Title: "hello, world"},
	}

	res, err := NewGenerator(cfg).WithTopics(topics).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, "hello-world", res.Collisions[0].Slug)
	assert.Equal(t, []string{"Hello World", "hello, world"}, res.Collisions[0].Titles)

	page, err := os.ReadFile(filepath.Join(cfg.PostsDir, "hello-world.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "hello, world")
	assert.Len(t, res.Entries, 2)
}

func TestRunMissingTemplateWritesNothing(t *testing.T) {
	cfg := newSite(t, 1)
	require.NoError(t, os.Remove(cfg.TemplatePath))
	var out bytes.Buffer

	_, err := NewGenerator(cfg).WithOutput(&out).WithTopics(testTopics()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryTemplate))
	assert.Empty(t, out.String())

	entries, err := os.ReadDir(cfg.PostsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoFileExists(t, cfg.IndexPath)
	assert.NoFileExists(t, cfg.SitemapPath)
}

func TestRunTemplateWithoutPlaceholders(t *testing.T) {
	cfg := newSite(t, 1)
	require.NoError(t, os.WriteFile(cfg.TemplatePath, []byte("<p>static</p>"), 0o644))

	_, err := NewGenerator(cfg).WithTopics(testTopics()).Run(context.Background())
	require.NoError(t, err)

	page, err := os.ReadFile(filepath.Join(cfg.PostsDir, "first-post.html"))
	require.NoError(t, err)
	assert.Equal(t, "<p>static</p>", string(page))
}

func TestRunEmptyCatalog(t *testing.T) {
	cfg := newSite(t, 1)

	res, err := NewGenerator(cfg).WithTopics(nil).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Pages)

	data, err := os.ReadFile(cfg.IndexPath)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"posts\": []\n}", string(data))
}

func TestRunUnwritableTarget(t *testing.T) {
	cfg := newSite(t, 1)
	// A regular file where the data directory should be.
	require.NoError(t, os.WriteFile(cfg.DataDir, []byte("x"), 0o644))

	_, err := NewGenerator(cfg).WithTopics(testTopics()).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	assert.FileExists(t, filepath.Join(cfg.PostsDir, "first-post.html"))
}

func TestRunCanceled(t *testing.T) {
	cfg := newSite(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewGenerator(cfg).WithTopics(testTopics()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunUsesClockWhenDateNotPinned(t *testing.T) {
	cfg := newSite(t, 1)
	cfg.Today = time.Time{}
	clock := func() time.Time { return time.Date(2024, time.December, 31, 18, 30, 0, 0, time.UTC) }

	res, err := NewGenerator(cfg).WithClock(clock).WithTopics(testTopics()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", res.Entries[0].Date)
	assert.Equal(t, "2024-12-29", res.Entries[2].Date)
}

func TestRunRecordsMetrics(t *testing.T) {
	cfg := newSite(t, 1)
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)

	_, err := NewGenerator(cfg).WithRecorder(rec).WithTopics(testTopics()).Run(context.Background())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "sitegen.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitegen_files_written_total{kind="page"} 3`)
	assert.Contains(t, string(data), `sitegen_build_outcomes_total{outcome="success"} 1`)
	assert.Contains(t, string(data), `sitegen_stage_results_total{result="success",stage="sitemap"} 1`)
}

func TestRunRecordsOverwrittenPages(t *testing.T) {
	cfg := newSite(t, 1)
	reg := prom.NewRegistry()
	topics := []catalog.Topic{
		{Category: catalog.Ops, Title: "Same Title"},
		{Category: catalog.Ops, Title: "same title"},
		{Category: catalog.Ops, Title: "SAME  TITLE"},
		{Category: catalog.Ops, Title: "Unique"},
	}

	res, err := NewGenerator(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg)).WithTopics(topics).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Collisions, 1)
	assert.Equal(t, 2, Overwritten(res.Collisions))

	path := filepath.Join(t.TempDir(), "sitegen.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sitegen_slug_collisions 2\n")
}

func TestFindCollisions(t *testing.T) {
	topics := []catalog.Topic{
		{Category: catalog.Ops, Title: "A b"},
		{Category: catalog.Ops, Title: "Other"},
		{Category: catalog.Ops, Title: "a  B"},
		{Category: catalog.Ops, Title: "!!!"},
		{Category: catalog.Ops, Title: "???"},
	}
	got := FindCollisions(topics)
	require.Len(t, got, 2)
	assert.Equal(t, Collision{Slug: "a-b", Titles: []string{"A b", "a  B"}}, got[0])
	assert.Equal(t, Collision{Slug: "post", Titles: []string{"!!!", "???"}}, got[1])
}

// snapshot maps every file under dir to its contents.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}
