package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// DefaultDebounce is the quiet period after the last file event before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Rebuild reasons passed to the build function.
const (
	ReasonStartup = "startup"
	ReasonChange  = "file_change"
	ReasonDaily   = "daily"
)

// BuildFunc runs one build. Errors are logged; the watcher keeps going.
type BuildFunc func(ctx context.Context, reason string) error

// Watcher reruns a build when any of its files changes and, optionally, once
// a day. Builds never overlap.
type Watcher struct {
	files    []string
	build    BuildFunc
	debounce time.Duration
	logger   *slog.Logger
	daily    bool
	requests chan string
}

// New returns a watcher over files, which need not exist yet.
func New(files []string, build BuildFunc) (*Watcher, error) {
	abs := make([]string, 0, len(files))
	for _, f := range files {
		p, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve watched path %s: %w", f, err)
		}
		if !slices.Contains(abs, p) {
			abs = append(abs, p)
		}
	}
	return &Watcher{
		files:    abs,
		build:    build,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		daily:    true,
		requests: make(chan string, 1),
	}, nil
}

// WithDebounce sets the quiet period after file events.
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	w.debounce = d
	return w
}

// WithLogger sets the structured logger.
func (w *Watcher) WithLogger(l *slog.Logger) *Watcher {
	w.logger = l
	return w
}

// WithDaily toggles the daily rebuild shortly after local midnight.
func (w *Watcher) WithDaily(enabled bool) *Watcher {
	w.daily = enabled
	return w
}

// Run builds once, then serves rebuild requests until ctx is canceled.
// The startup build error is returned; later build errors are only logged.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.build(ctx, ReasonStartup); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if cerr := fsw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	// Watch directories rather than files so that editors replacing a file
	// through rename are still seen.
	var dirs []string
	for _, f := range w.files {
		dir := filepath.Dir(f)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	if w.daily {
		sched, err := NewScheduler(time.Local)
		if err != nil {
			return err
		}
		if _, err := sched.ScheduleDaily(0, 0, 5, func() { w.request(ReasonDaily) }); err != nil {
			return err
		}
		sched.Start()
		defer func() {
			if serr := sched.Stop(); serr != nil {
				w.logger.Error("Error stopping scheduler", logfields.Error(serr))
			}
		}()
	}

	w.logger.Info("Watching for changes", slog.Any("files", w.files))
	go w.eventLoop(ctx, fsw)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Watcher stopped")
			return nil
		case reason := <-w.requests:
			w.logger.Info("Rebuilding", logfields.Event(reason))
			if err := w.build(ctx, reason); err != nil {
				w.logger.Error("Rebuild failed", logfields.Event(reason), logfields.Error(err))
			}
		}
	}
}

// eventLoop turns bursts of events on watched files into single requests.
func (w *Watcher) eventLoop(ctx context.Context, fsw *fsnotify.Watcher) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !slices.Contains(w.files, filepath.Clean(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				if event.Has(fsnotify.Remove) {
					w.logger.Warn("Watched file removed", logfields.Path(event.Name))
				}
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), logfields.Event(event.Op.String()))
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.request(ReasonChange) })
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

// request queues a rebuild unless one is already pending.
func (w *Watcher) request(reason string) {
	select {
	case w.requests <- reason:
	default:
	}
}
