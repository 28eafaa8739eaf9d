// Package watch reports changes below the content directory.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// DefaultDebounce is how long the tree must stay quiet before a change is
// reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree and calls onChange once per burst of
// filesystem events.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func()
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values keep the default.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New starts watching root and every directory below it.
func New(root string, onChange func(), opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &Watcher{root: root, debounce: DefaultDebounce, onChange: onChange, fsw: fsw}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.addRecursive(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.close()
	slog.Info("Watching content", logfields.Path(w.root))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if Ignored(ev.Name) || ev.Op == fsnotify.Chmod {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addRecursive(ev.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(ev.Name), logfields.Error(err))
			}
		}
	}
	slog.Debug("Content change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	w.schedule()
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onChange)
}

func (w *Watcher) close() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		slog.Warn("Failed to close file watcher", logfields.Error(err))
	}
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.WrapError(err, errors.CategoryFileSystem, "cannot watch directory").
					WithContext("path", path).
					Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && Ignored(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "cannot watch directory").
				WithContext("path", path).
				Build()
		}
		return nil
	})
}

// Ignored reports whether a change to path is noise: hidden files, editor
// swap and backup files, and OS metadata files.
func Ignored(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasSuffix(base, ".tmp"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db", base == "4913":
		return true
	}
	return false
}
