// Package watcher re-reads a schedule text file whenever it is saved.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// FileWatcher watches one file. The parent directory is watched so editors
// that replace the file on save are still seen.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   *zap.Logger
	onChange func(text string)
}

// New creates a watcher calling onChange with the file's contents after
// each burst of writes settles for debounce.
func New(path string, debounce time.Duration, logger *zap.Logger, onChange func(text string)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &FileWatcher{path: abs, debounce: debounce, logger: logger, onChange: onChange}, nil
}

// Run emits the current contents once, then watches until ctx is done
func (w *FileWatcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}

	w.emit()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("schedule file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-timer.C:
			w.emit()
		}
	}
}

func (w *FileWatcher) emit() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		// mid-rename or deleted; the next event will retry
		w.logger.Debug("read schedule file", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.onChange(string(data))
}
