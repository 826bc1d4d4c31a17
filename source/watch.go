package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
)

// Reloader rebuilds from a source. *gameplaytags.Registry implements it.
type Reloader interface {
	Reload(ctx context.Context) (gameplaytags.Stats, error)
}

// ReloadFunc adapts a function to the Reloader interface.
type ReloadFunc func(ctx context.Context) (gameplaytags.Stats, error)

// Reload calls f(ctx).
func (f ReloadFunc) Reload(ctx context.Context) (gameplaytags.Stats, error) {
	return f(ctx)
}

func reload(ctx context.Context, r Reloader, logger *slog.Logger, origin string) {
	stats, err := r.Reload(ctx)
	if err != nil {
		logger.Error("tag reload failed",
			"source", origin,
			"error", err)
		return
	}
	logger.Info("tags reloaded",
		"source", origin,
		"generation", stats.Generation.String(),
		"explicit", stats.Explicit,
		"implicit", stats.Implicit)
}

// DefaultDebounce is how long FileWatcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// FileWatcher reloads when a tag file changes. It watches the containing
// directory so editors that replace the file on save are still seen.
type FileWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	debounce  time.Duration
	reloader  Reloader
	logger    *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// WatchOption configures a FileWatcher.
type WatchOption func(*FileWatcher)

// WithDebounce sets the quiet period before a reload.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *FileWatcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(logger *slog.Logger) WatchOption {
	return func(w *FileWatcher) {
		w.logger = logger
	}
}

// NewFileWatcher creates a watcher for path. Call Run to start it.
func NewFileWatcher(path string, r Reloader, opts ...WatchOption) (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	w := &FileWatcher{
		fsWatcher: fsw,
		path:      filepath.Clean(path),
		debounce:  DefaultDebounce,
		reloader:  r,
		logger:    slog.Default(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run watches until ctx is cancelled or Close is called.
func (w *FileWatcher) Run(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w.logger.Info("watching tag file", "path", w.path, "debounce", w.debounce)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.isRelevantEvent(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C
			pending = true

		case <-timerC:
			timerC = nil
			if pending {
				pending = false
				reload(ctx, w.reloader, w.logger, w.path)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("tag file watcher error", "path", w.path, "error", err)

		case <-ctx.Done():
			return nil

		case <-w.done:
			return nil
		}
	}
}

// Close stops Run and releases the underlying watcher.
func (w *FileWatcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// isRelevantEvent reports writes and creations of the watched file.
func (w *FileWatcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
