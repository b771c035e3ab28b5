package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce    time.Duration `help:"Quiet period after a file change before regenerating" default:"500ms"`
	NoDaily     bool          `name:"no-daily" help:"Do not regenerate shortly after midnight"`
	MetricsFile string        `name:"metrics-file" help:"Write Prometheus metrics to this file after every run" type:"path"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadResolved()
	if err != nil {
		return err
	}
	cfgPath, _ := root.configPath()

	watcher, err := watch.New([]string{cfg.TemplatePath, cfgPath}, w.rebuild(g, root, newMetricsSink(w.MetricsFile)))
	if err != nil {
		return errors.WrapError(err, errors.CategoryWatch, "failed to set up watcher").Build()
	}
	if err := watcher.WithDebounce(w.Debounce).WithLogger(g.Logger).WithDaily(!w.NoDaily).Run(g.Context); err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return err
		}
		return errors.WrapError(err, errors.CategoryWatch, "watcher failed").Build()
	}
	return nil
}

// rebuild reloads the configuration and regenerates the site. The watched
// template path and the .env values are the ones read at startup.
func (w *WatchCmd) rebuild(g *Global, root *CLI, sink *metricsSink) watch.BuildFunc {
	return func(ctx context.Context, reason string) error {
		current, err := root.loadResolved()
		if err != nil {
			return err
		}
		g.Logger.Debug("Regenerating", logfields.Event(reason))
		return sink.generate(ctx, g, current)
	}
}
