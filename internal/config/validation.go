package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	if c.Build.Workers < 1 {
		return ferrors.ConfigError("build.workers must be at least 1").
			WithContext("workers", c.Build.Workers).
			Build()
	}
	if c.Build.Today != "" {
		if _, err := time.Parse(catalog.DateLayout, c.Build.Today); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "build.today must be a YYYY-MM-DD date").
				Fatal().
				WithContext("today", c.Build.Today).
				Build()
		}
	}
	if !strings.HasPrefix(c.Site.PostsURLPath, "/") {
		return ferrors.ConfigError("site.posts_url_path must start with /").
			WithContext("posts_url_path", c.Site.PostsURLPath).
			Build()
	}
	for _, page := range c.Site.StaticPages {
		if !strings.HasPrefix(page, "/") {
			return ferrors.ConfigError("site.static_pages entries must start with /").
				WithContext("page", page).
				Build()
		}
	}
	if strings.ContainsAny(c.Paths.IndexFile, `/\`) {
		return ferrors.ConfigError("paths.index_file must be a file name inside paths.data_dir").
			WithContext("index_file", c.Paths.IndexFile).
			Build()
	}
	return nil
}
