package config

import (
	"path/filepath"
	"slices"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Resolved is the configuration with every path made absolute. It is the
// value handed to the generator; nothing in sitegen keeps paths in globals.
type Resolved struct {
	SiteDir      string
	TemplatePath string
	PostsDir     string
	DataDir      string
	IndexPath    string
	SitemapPath  string
	PostsURLPath string
	StaticPages  []string
	// Today is the pinned generation date; zero means use the clock.
	Today   time.Time
	Workers int
}

// Resolve anchors relative paths at siteDir.
func (c *Config) Resolve(siteDir string) (*Resolved, error) {
	abs, err := filepath.Abs(siteDir)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to resolve site directory").
			Fatal().
			WithContext("site_dir", siteDir).
			Build()
	}

	r := &Resolved{
		SiteDir:      abs,
		TemplatePath: anchor(abs, c.Paths.Template),
		PostsDir:     anchor(abs, c.Paths.PostsDir),
		DataDir:      anchor(abs, c.Paths.DataDir),
		SitemapPath:  anchor(abs, c.Paths.Sitemap),
		PostsURLPath: c.Site.PostsURLPath,
		StaticPages:  slices.Clone(c.Site.StaticPages),
		Workers:      c.Build.Workers,
	}
	r.IndexPath = filepath.Join(r.DataDir, c.Paths.IndexFile)

	if c.Build.Today != "" {
		// Validate has already checked the layout.
		r.Today, _ = time.ParseInLocation(catalog.DateLayout, c.Build.Today, time.Local)
	}
	return r, nil
}

// Rel returns path relative to the site directory with forward slashes, or
// path unchanged when it lies outside the site.
func (r *Resolved) Rel(path string) string {
	rel, err := filepath.Rel(r.SiteDir, path)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// GenerationDate returns the pinned date or now.
func (r *Resolved) GenerationDate(now func() time.Time) time.Time {
	if !r.Today.IsZero() {
		return r.Today
	}
	return now()
}

func anchor(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}
