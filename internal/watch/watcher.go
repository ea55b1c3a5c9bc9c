// internal/watch/watcher.go
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of events, such as an editor's
// write-then-rename, into one notification.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to plain files directly in a working directory.
type Watcher struct {
	root     string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
}

func New(root string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := w.Add(root); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}

	return &Watcher{
		root:     root,
		debounce: debounce,
		watcher:  w,
		logger:   logger,
	}, nil
}

// ShouldIgnore reports whether an event on path is irrelevant to the
// working directory's tracked view.
func (w *Watcher) ShouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return true
	}
	if strings.Contains(rel, string(filepath.Separator)) {
		return true
	}
	return strings.HasPrefix(rel, ".")
}

// Run calls fn once per settled burst of changes until ctx is done or the
// watcher fails. fn errors stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	// fire is nil while no change is pending.
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.ShouldIgnore(event.Name) {
				continue
			}
			w.logger.Debug("working directory event",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			fire = time.After(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := fn(); err != nil {
				return err
			}
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
