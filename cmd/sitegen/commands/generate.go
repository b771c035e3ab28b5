package commands

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Date        string `help:"Generate as if today were this date (YYYY-MM-DD)" placeholder:"DATE"`
	Workers     int    `help:"Concurrent page writers (overrides build.workers)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the run" type:"path"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if c.Date != "" {
		cfg.Build.Today = c.Date
	}
	if c.Workers != 0 {
		cfg.Build.Workers = c.Workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	resolved, err := cfg.Resolve(root.SiteDir)
	if err != nil {
		return err
	}
	return newMetricsSink(c.MetricsFile).generate(g.Context, g, resolved)
}

// metricsSink owns the registry of a process and flushes it to a textfile
// after each run. A sink without a file records nothing.
type metricsSink struct {
	file     string
	registry *prometheus.Registry
	recorder metrics.Recorder
}

func newMetricsSink(file string) *metricsSink {
	if file == "" {
		return &metricsSink{recorder: metrics.NoopRecorder{}}
	}
	reg := prometheus.NewRegistry()
	return &metricsSink{file: file, registry: reg, recorder: metrics.NewPrometheusRecorder(reg)}
}

func (m *metricsSink) generate(ctx context.Context, g *Global, cfg *config.Resolved) error {
	_, err := site.NewGenerator(cfg).
		WithOutput(g.Stdout).
		WithLogger(g.Logger).
		WithRecorder(m.recorder).
		WithClock(g.Now).
		Run(ctx)

	if m.registry == nil {
		return err
	}
	if werr := metrics.WriteTextfile(m.file, m.registry); werr != nil {
		if err != nil {
			g.Logger.Error("Failed to write metrics", logfields.Path(m.file), logfields.Error(werr))
			return err
		}
		return errors.WrapError(werr, errors.CategoryFileSystem, "failed to write metrics file").
			WithContext("path", m.file).
			Build()
	}
	return err
}
