// Package watch re-runs a render whenever the scene file or anything it
// references changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Watcher watches a set of files. Directories are watched rather than the
// files themselves so that editors which save by rename are still seen.
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]bool
	debounce time.Duration
	log      *log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long to wait after the last event before running.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger for change and error reports.
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher for the given files.
func New(files []string, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fs:       fsw,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
		debounce: DefaultDebounce,
		log:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.Add(files...); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Add starts watching more files.
func (w *Watcher) Add(files ...string) error {
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch %s: %w", f, err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if w.dirs[dir] {
			continue
		}
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run calls fn once, then again each time a watched file is written or
// created, until ctx is done. Errors from fn are logged and do not stop the
// loop. Run returns nil when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context) error) error {
	w.run(ctx, fn)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case e, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			if !w.files[e.Name] || !e.Op.Has(fsnotify.Write) && !e.Op.Has(fsnotify.Create) {
				continue
			}
			w.log.Debug("file changed", "file", e.Name, "op", e.Op)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			w.log.Error("watch", "err", err)

		case <-fire:
			fire = nil
			w.run(ctx, fn)
		}
	}
}

func (w *Watcher) run(ctx context.Context, fn func(context.Context) error) {
	start := time.Now()
	if err := fn(ctx); err != nil {
		w.log.Error("render failed", "err", err)
		return
	}
	w.log.Info("rendered", "elapsed", time.Since(start).Round(time.Millisecond))
}
