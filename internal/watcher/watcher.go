// Package watcher keeps the indices in sync with the corpus directory using
// fsnotify, with per-file debouncing.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fieldnotes/guidepost/internal/corpus"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches the corpus root and invokes callbacks on guide changes.
// Callbacks receive corpus-relative slash paths.
type Watcher struct {
	scanner     *corpus.Scanner
	recursive   bool
	onIndex     func(relPath string)
	onRemove    func(relPath string)
	debounce    time.Duration
	watcher     *fsnotify.Watcher
	mu          sync.Mutex
	debounceMap map[string]*time.Timer
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
	logger      *zap.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the debounce interval for write bursts.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher creates a watcher over the scanner's corpus root. Events for
// files the scanner does not match are ignored.
func NewWatcher(scanner *corpus.Scanner, recursive bool, onIndex, onRemove func(relPath string), opts ...WatcherOption) *Watcher {
	w := &Watcher{
		scanner:     scanner,
		recursive:   recursive,
		onIndex:     onIndex,
		onRemove:    onRemove,
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting",
			zap.String("root", w.scanner.Root()),
			zap.Bool("recursive", w.recursive))
	}
	if err := w.addRootLocked(); err != nil {
		_ = w.watcher.Close()
		w.watcher = nil
		w.started = false
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

func (w *Watcher) addRootLocked() error {
	root := filepath.Clean(w.scanner.Root())
	if _, err := os.Stat(root); err != nil {
		return err
	}
	if !w.recursive {
		return w.watcher.Add(root)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	switch ev.Op {
	case fsnotify.Create, fsnotify.Write:
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
		if w.scanner.MatchAbs(path) {
			w.debounceIndex(path)
		}
	case fsnotify.Remove, fsnotify.Rename:
		w.cancelDebounce(path)
		// The file is gone, so MatchAbs can only go by pattern.
		if w.scanner.MatchAbs(path) && w.onRemove != nil {
			if rel, ok := w.relPath(path); ok {
				w.onRemove(rel)
			}
		}
	}
}

// handleNewDirectory registers a created directory (recursive mode) and
// indexes any guides already inside it, e.g. after a directory move.
func (w *Watcher) handleNewDirectory(dirPath string) {
	w.mu.Lock()
	recursive := w.recursive
	watcher := w.watcher
	w.mu.Unlock()
	if watcher == nil || !recursive {
		return
	}
	filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := watcher.Add(path); addErr != nil && w.logger != nil {
				w.logger.Debug("watcher failed to add directory", zap.String("path", path), zap.Error(addErr))
			}
			return nil
		}
		if w.scanner.MatchAbs(path) {
			w.debounceIndex(path)
		}
		return nil
	})
}

func (w *Watcher) relPath(absPath string) (string, bool) {
	rel, err := filepath.Rel(w.scanner.Root(), absPath)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) debounceIndex(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
	}
	t := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, path)
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("watcher indexing guide (debounced)", zap.String("path", path))
		}
		if w.onIndex != nil {
			if rel, ok := w.relPath(path); ok {
				w.onIndex(rel)
			}
		}
	})
	w.debounceMap[path] = t
}

func (w *Watcher) cancelDebounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[path]; ok {
		t.Stop()
		delete(w.debounceMap, path)
	}
}

// SyncExistingFiles indexes every guide already present under the corpus
// root. Call after Start() to catch files created while not watching.
func (w *Watcher) SyncExistingFiles() {
	files, err := w.scanner.Files()
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("watcher sync failed", zap.Error(err))
		}
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher syncing existing guides", zap.Int("count", len(files)))
	}
	for _, rel := range files {
		if w.onIndex != nil {
			w.onIndex(rel)
		}
	}
}

// Stop stops the watcher and releases resources.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for path, t := range w.debounceMap {
		t.Stop()
		delete(w.debounceMap, path)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
