package commands

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/version"
)

// Global carries process-wide state into every command.
type Global struct {
	Context context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Now     func() time.Time
}

// NewGlobal returns the state for one process invocation.
func NewGlobal(ctx context.Context, stdout, stderr io.Writer) *Global {
	return &Global{
		Context: ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  slog.Default(),
		Now:     time.Now,
	}
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	SiteDir string           `name:"site-dir" short:"C" help:"Site root directory" default:"." type:"path"`
	Config  string           `short:"c" help:"Configuration file (default: sitegen.yaml in the site directory, optional)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate post pages, the post index and the sitemap"`
	Init     InitCmd     `cmd:"" help:"Write a starter template and configuration file"`
	Slug     SlugCmd     `cmd:"" help:"Print the slug derived from each title"`
	Verify   VerifyCmd   `cmd:"" help:"Check generated output for broken links and missing files"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate on template or config changes and once a day"`

	dotEnvLoaded bool
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(g.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// NewParser builds the kong parser for cli, binding g for command Run methods.
func NewParser(cli *CLI, g *Global, options ...kong.Option) (*kong.Kong, error) {
	opts := []kong.Option{
		kong.Name("sitegen"),
		kong.Description("Generate blog post pages, the post index and the sitemap of a static site."),
		kong.Vars{"version": version.String()},
		kong.Writers(g.Stdout, g.Stderr),
		kong.Bind(g),
	}
	return kong.New(cli, append(opts, options...)...)
}

// Run parses args, runs the selected command and returns the exit code.
func Run(parser *kong.Kong, cli *CLI, g *Global, args []string) int {
	kctx, err := parser.Parse(args)
	if err != nil {
		err = errors.WrapError(err, errors.CategoryValidation, "invalid command line").Build()
	} else {
		err = kctx.Run(cli)
	}
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, g.Logger).WithWriter(g.Stderr)
	return adapter.Report(err)
}

// configPath returns the configuration file and whether it was named explicitly.
func (c *CLI) configPath() (string, bool) {
	if c.Config != "" {
		return c.Config, true
	}
	return filepath.Join(c.SiteDir, config.DefaultFileName), false
}

// loadConfig reads the configuration file. The site's .env file is read on
// the first call only, so a long-running watch keeps its startup environment.
func (c *CLI) loadConfig() (*config.Config, error) {
	if !c.dotEnvLoaded {
		if err := config.LoadDotEnv(c.SiteDir); err != nil {
			return nil, err
		}
		c.dotEnvLoaded = true
	}
	path, explicit := c.configPath()
	return config.Load(path, explicit)
}

func (c *CLI) loadResolved() (*config.Resolved, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Resolve(c.SiteDir)
}
