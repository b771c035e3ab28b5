package site

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ensureDir creates dir and its parents. Existing directories are fine.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
			Fatal().
			WithContext("path", dir).
			Build()
	}
	return nil
}

// writeFile writes content to path, replacing any previous file. The parent
// directory must already exist.
func writeFile(path string, content []byte) error {
	// #nosec G306 -- generated pages are public site content.
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}

// pagePath returns the page file for slug under postsDir and rejects anything
// that would land outside it.
func pagePath(postsDir, slug string) (string, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || slug == "." || slug == ".." {
		return "", fmt.Errorf("invalid page slug %q", slug)
	}
	return filepath.Join(postsDir, slug+".html"), nil
}
