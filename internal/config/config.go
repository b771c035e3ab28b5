// Package config loads and resolves the sitegen site configuration.
//
// Every setting has a default, so a site without a configuration file builds
// with the conventional layout:
//
//	blog/post.html      page template
//	blog/posts/         generated post pages
//	data/posts.json     post index
//	sitemap.xml         sitemap
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up in the site directory.
const DefaultFileName = "sitegen.yaml"

// Config represents the site configuration file.
type Config struct {
	Paths PathsConfig `yaml:"paths"`
	Site  SiteConfig  `yaml:"site"`
	Build BuildConfig `yaml:"build"`
}

// PathsConfig locates inputs and outputs. Relative paths are resolved against the site directory.
type PathsConfig struct {
	Template  string `yaml:"template"`
	PostsDir  string `yaml:"posts_dir"`
	DataDir   string `yaml:"data_dir"`
	IndexFile string `yaml:"index_file"` // relative to DataDir
	Sitemap   string `yaml:"sitemap"`
}

// SiteConfig describes the published URL layout.
type SiteConfig struct {
	PostsURLPath string   `yaml:"posts_url_path"`
	StaticPages  []string `yaml:"static_pages"`
}

// BuildConfig tunes a generation run.
type BuildConfig struct {
	// Today pins the date posts are counted back from (YYYY-MM-DD). Empty means the current date.
	Today   string `yaml:"today,omitempty"`
	Workers int    `yaml:"workers"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	// Appliers never fail on an empty config.
	_ = applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. A missing file yields the defaults
// unless explicit is set, in which case it is a configuration error.
// ${VAR} references are expanded from the environment before decoding.
func Load(path string, explicit bool) (*Config, error) {
	// #nosec G304 -- path is provided by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration YAML, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to parse configuration").Fatal().Build()
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Marshal renders the configuration as YAML.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode configuration: %w", err)
	}
	return buf.Bytes(), nil
}
