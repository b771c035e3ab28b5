package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"

	ferrors "git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// DotEnvFile is the optional environment file read from the site directory.
const DotEnvFile = ".env"

// LoadDotEnv adds the variables of siteDir/.env to the process environment so
// that ${VAR} references in the configuration can use them. Variables already
// set are left alone. A missing file is not an error.
func LoadDotEnv(siteDir string) error {
	path := filepath.Join(siteDir, DotEnvFile)
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read environment file").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return nil
}
