package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

const configHeader = `# sitegen configuration.
# Relative paths are resolved against the site directory.
# ${VAR} references are expanded from the environment.
`

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing template and configuration files"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	cfg := config.Default()
	resolved, err := cfg.Resolve(root.SiteDir)
	if err != nil {
		return err
	}
	cfgPath, _ := root.configPath()

	body, err := config.Marshal(cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode default configuration").Build()
	}
	files := []struct {
		path    string
		content []byte
	}{
		{resolved.TemplatePath, []byte(render.StarterTemplate())},
		{cfgPath, append([]byte(configHeader), body...)},
	}

	if !i.Force {
		for _, f := range files {
			if _, err := os.Stat(f.path); err == nil {
				return errors.ValidationError("file already exists (use --force to overwrite)").
					WithContext("path", f.path).
					Build()
			}
		}
	}

	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create directory").
				Fatal().
				WithContext("path", filepath.Dir(f.path)).
				Build()
		}
		// #nosec G306 -- template and config are meant to be edited and committed.
		if err := os.WriteFile(f.path, f.content, 0o644); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to write file").
				Fatal().
				WithContext("path", f.path).
				Build()
		}
		_, _ = fmt.Fprintf(g.Stdout, "Created: %s\n", resolved.Rel(f.path))
	}
	return nil
}
