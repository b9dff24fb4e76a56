// Package watcher reports audio files that appear in a directory tree once
// they have finished being written.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is a file that was created or modified and has since settled.
type Event struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Watcher watches directories with fsnotify and debounces writes per file.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	roots   []string
	pending map[string]*pendingFile
	stopped bool

	events chan Event
	done   chan struct{}
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher. Call Add for each root, then Run.
func New(logger *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		logger:  logger,
		opts:    opts,
		fsw:     fsw,
		pending: make(map[string]*pendingFile),
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the settled-file channel. It is never closed; stop
// reading once Run has returned.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Add recursively watches the directory at root.
func (w *Watcher) Add(root string) error {
	root = filepath.Clean(root)

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	w.mu.Lock()
	w.roots = append(w.roots, root)
	w.mu.Unlock()

	return w.watchDir(root)
}

// ignored applies the ignore rules to path relative to the innermost
// watched root containing it. A root may itself sit in a hidden directory.
func (w *Watcher) ignored(path string) bool {
	return w.opts.shouldIgnore(w.relative(path))
}

func (w *Watcher) relative(path string) string {
	w.mu.Lock()
	defer w.mu.Unlock()

	best, bestRoot := path, ""
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if len(root) > len(bestRoot) {
			best, bestRoot = rel, root
		}
	}
	return best
}

func (w *Watcher) watchDir(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("failed to access path", "path", p, "error", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.ignored(p) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("failed to add watch %s: %w", p, err)
		}
		w.logger.Debug("added watch", "path", p)
		return nil
	})
}

// Run processes filesystem events until ctx is cancelled, then releases
// the underlying watcher. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	path := event.Name
	if w.ignored(path) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cancel(path)
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		w.cancel(path)
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.watchDir(path); err != nil {
				w.logger.Warn("failed to watch new directory", "path", path, "error", err)
			}
		}
		return
	}
	if w.opts.Accept != nil && !w.opts.Accept(path) {
		return
	}

	w.settle(path, info)
}

// settle (re)starts the settle timer for path.
func (w *Watcher) settle(path string, info fs.FileInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
	}

	w.pending[path] = &pendingFile{
		size:    info.Size(),
		modTime: info.ModTime(),
		timer:   time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) }),
	}
}

// checkSettled emits path if its size and mtime did not change during the
// settle delay, and re-arms the timer otherwise.
func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.stopped {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() { w.checkSettled(path) })
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case w.events <- Event{Path: path, Size: info.Size(), ModTime: info.ModTime()}:
	case <-w.done:
	}
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[path]; ok {
		p.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	for _, p := range w.pending {
		p.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	close(w.done)
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("failed to close watcher", "error", err)
	}
}
