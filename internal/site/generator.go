package site

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/index"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/sitemap"
)

// Stage names, also used as metric labels.
const (
	StagePrepare      = "prepare"
	StageLoadTemplate = "load_template"
	StageCatalog      = "catalog"
	StagePages        = "pages"
	StageIndex        = "index"
	StageSitemap      = "sitemap"
)

// Generator produces the site output for one resolved configuration.
type Generator struct {
	cfg      *config.Resolved
	out      io.Writer
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
	topics   func() ([]catalog.Topic, error)
}

// NewGenerator returns a generator that reads the embedded catalog, prints
// progress to io.Discard and records no metrics.
func NewGenerator(cfg *config.Resolved) *Generator {
	return &Generator{
		cfg:      cfg,
		out:      io.Discard,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		topics:   catalog.Default,
	}
}

// WithOutput sets the writer that receives progress and summary lines.
func (g *Generator) WithOutput(w io.Writer) *Generator {
	g.out = w
	return g
}

// WithLogger sets the structured logger.
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	g.logger = l
	return g
}

// WithRecorder sets the metrics recorder.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	g.recorder = r
	return g
}

// WithClock overrides the clock used when no date is pinned.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithTopics replaces the embedded catalog.
func (g *Generator) WithTopics(topics []catalog.Topic) *Generator {
	g.topics = func() ([]catalog.Topic, error) { return topics, nil }
	return g
}

// Run executes every stage in order. Output already written when a later
// stage fails is left in place.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := g.logger.With(logfields.RunID(runID))

	res := &Result{
		RunID:     runID,
		Date:      catalog.Today(g.cfg.GenerationDate(g.now)),
		IndexPath: g.cfg.IndexPath,
		Sitemap:   g.cfg.SitemapPath,
		Stages:    make(map[string]time.Duration),
	}
	log.Info("Starting generation",
		logfields.Date(res.Date.Format(catalog.DateLayout)),
		logfields.Path(g.cfg.SiteDir),
		logfields.Workers(g.cfg.Workers))

	err := g.run(ctx, log, res)
	res.Duration = time.Since(start)
	g.recorder.ObserveBuildDuration(res.Duration)
	if err != nil {
		g.recorder.IncBuildOutcome(metrics.OutcomeFailed)
		log.Error("Generation failed", logfields.Error(err), logfields.DurationMS(ms(res.Duration)))
		return res, err
	}
	g.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	log.Info("Generation complete",
		logfields.Count(len(res.Pages)),
		logfields.DurationMS(ms(res.Duration)))
	return res, nil
}

func (g *Generator) run(ctx context.Context, log *slog.Logger, res *Result) error {
	var (
		tpl   *render.Template
		posts []catalog.Post
	)

	if err := g.stage(ctx, log, res, StagePrepare, func() error {
		return ensureDir(g.cfg.PostsDir)
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, log, res, StageLoadTemplate, func() error {
		var err error
		tpl, err = render.LoadTemplate(g.cfg.TemplatePath)
		if err != nil {
			return err
		}
		if missing := tpl.Missing(); len(missing) > 0 {
			log.Warn("Template is missing placeholders",
				logfields.Path(g.cfg.Rel(g.cfg.TemplatePath)),
				slog.Any("placeholders", missing))
		}
		return nil
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, log, res, StageCatalog, func() error {
		topics, err := g.topics()
		if err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to load topic catalog").Build()
		}
		posts = catalog.Posts(topics, res.Date)
		res.Collisions = findCollisions(posts)
		g.recorder.SetSlugCollisions(Overwritten(res.Collisions))
		for _, c := range res.Collisions {
			log.Warn("Titles share a slug; the last one wins",
				logfields.Slug(c.Slug),
				slog.Any("titles", c.Titles))
		}
		log.Debug("Catalog loaded", logfields.Count(len(posts)))
		return nil
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, log, res, StagePages, func() error {
		pages, err := g.writePages(ctx, tpl, posts)
		res.Pages = pages
		for _, p := range pages {
			if p.Path == "" {
				continue
			}
			if _, werr := fmt.Fprintf(g.out, "Wrote: %s\n", p.RelPath); werr != nil {
				return errors.WrapError(werr, errors.CategoryInternal, "failed to print progress").Build()
			}
		}
		return err
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, log, res, StageIndex, func() error {
		res.Entries = index.Build(posts, g.cfg.PostsURLPath)
		data, err := index.Marshal(res.Entries)
		if err != nil {
			return errors.WrapError(err, errors.CategoryRender, "failed to encode post index").Build()
		}
		if err := ensureDir(filepath.Dir(g.cfg.IndexPath)); err != nil {
			return err
		}
		if err := writeFile(g.cfg.IndexPath, data); err != nil {
			return err
		}
		g.recorder.AddFileWritten(metrics.KindIndex, len(data))
		return nil
	}); err != nil {
		return err
	}

	if err := g.stage(ctx, log, res, StageSitemap, func() error {
		data := sitemap.Build(g.cfg.StaticPages, res.Entries)
		if err := ensureDir(filepath.Dir(g.cfg.SitemapPath)); err != nil {
			return err
		}
		if err := writeFile(g.cfg.SitemapPath, data); err != nil {
			return err
		}
		g.recorder.AddFileWritten(metrics.KindSitemap, len(data))
		return nil
	}); err != nil {
		return err
	}

	return g.summary()
}

// stage runs fn as the named stage, recording its duration and result.
func (g *Generator) stage(ctx context.Context, log *slog.Logger, res *Result, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	start := time.Now()
	err := fn()
	d := time.Since(start)
	res.Stages[name] = d
	g.recorder.ObserveStageDuration(name, d)
	if err != nil {
		g.recorder.IncStageResult(name, metrics.ResultFailed)
		return err
	}
	g.recorder.IncStageResult(name, metrics.ResultSuccess)
	log.Debug("Stage complete", logfields.Stage(name), logfields.DurationMS(ms(d)))
	return nil
}

func (g *Generator) summary() error {
	postsDir := g.cfg.Rel(g.cfg.PostsDir) + "/"
	lines := []string{
		"",
		"Done.",
		"Generated: " + g.cfg.Rel(g.cfg.IndexPath),
		"Generated: " + g.cfg.Rel(g.cfg.SitemapPath),
		"Generated posts in: " + postsDir,
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(g.out, l); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to print summary").Build()
		}
	}
	return nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
