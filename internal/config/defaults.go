package config

import (
	"slices"

	"git.home.luguber.info/inful/sitegen/internal/index"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// Default values for the conventional site layout.
const (
	DefaultTemplate  = "blog/post.html"
	DefaultPostsDir  = "blog/posts"
	DefaultDataDir   = "data"
	DefaultIndexFile = "posts.json"
	DefaultSitemap   = "sitemap.xml"
	DefaultWorkers   = 1
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier handles Paths configuration defaults.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	p := &cfg.Paths
	if p.Template == "" {
		p.Template = DefaultTemplate
	}
	if p.PostsDir == "" {
		p.PostsDir = DefaultPostsDir
	}
	if p.DataDir == "" {
		p.DataDir = DefaultDataDir
	}
	if p.IndexFile == "" {
		p.IndexFile = DefaultIndexFile
	}
	if p.Sitemap == "" {
		p.Sitemap = DefaultSitemap
	}
	return nil
}

// SiteDefaultApplier handles Site configuration defaults.
type SiteDefaultApplier struct{}

func (SiteDefaultApplier) Domain() string { return "site" }

func (SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Site.PostsURLPath == "" {
		cfg.Site.PostsURLPath = index.DefaultURLPath
	}
	// nil means "not configured"; an explicit empty list is respected.
	if cfg.Site.StaticPages == nil {
		cfg.Site.StaticPages = slices.Clone(sitemap.DefaultStaticPages)
	}
	return nil
}

// BuildDefaultApplier handles Build configuration defaults.
type BuildDefaultApplier struct{}

func (BuildDefaultApplier) Domain() string { return "build" }

func (BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Workers == 0 {
		cfg.Build.Workers = DefaultWorkers
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		PathsDefaultApplier{},
		SiteDefaultApplier{},
		BuildDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
