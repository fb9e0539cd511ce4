// Package watch retranslates files in a directory tree as they are created
// or modified.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"codeberg.org/snonux/pinyinify/internal/backup"
	"codeberg.org/snonux/pinyinify/internal/processor"
)

// DefaultDebounce is how long a path has to be quiet before it is processed
const DefaultDebounce = 500 * time.Millisecond

// FileProcessor handles one settled file. *processor.Processor satisfies it.
type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (processor.Result, error)
}

// Stats tracks watcher activity
type Stats struct {
	Events    int
	Processed int
	Changed   int
	Errors    int
}

// Watcher watches a directory tree and feeds settled files to a processor
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	proc        FileProcessor
	logger      *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stats       Stats
}

// New creates a watcher for root. The processor should be configured with
// SkipUnchanged so that its own writes settle instead of looping.
func New(root string, proc FileProcessor, logger *zap.Logger) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access watch directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:     fw,
		root:        root,
		proc:        proc,
		logger:      logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
	}, nil
}

// SetDebounce changes the quiet period, mainly for tests
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	w.debounceDur = d
	w.mu.Unlock()
}

// Stats returns a snapshot of the watcher counters
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run watches until ctx is cancelled. It always closes the underlying
// watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching directory", zap.String("root", w.root))

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Watcher stopped", zap.Error(ctx.Err()))
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return errors.New("watch event channel closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return errors.New("watch error channel closed")
			}
			w.logger.Warn("Watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.processDebounced(ctx, time.Now())
		}
	}
}

// addTree adds dir and every directory below it
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.logger.Debug("Watching", zap.String("dir", path))
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if backup.IsBackup(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		// Gone already, e.g. renamed by a filename translation
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory",
					zap.String("dir", event.Name), zap.Error(err))
			}
			w.queueTree(event.Name)
		}
		return
	}
	if !info.Mode().IsRegular() {
		return
	}

	w.logger.Debug("File event", zap.String("path", event.Name), zap.String("op", event.Op.String()))
	w.queue(event.Name, time.Now())
}

// queueTree picks up files that landed in a new directory before it was
// being watched
func (w *Watcher) queueTree(dir string) {
	now := time.Now()
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() && !backup.IsBackup(path) {
			w.queue(path, now)
		}
		return nil
	})
}

func (w *Watcher) queue(path string, at time.Time) {
	w.mu.Lock()
	w.stats.Events++
	w.debounceMap[path] = at
	w.mu.Unlock()
}

// processDebounced processes paths that have been quiet for the debounce
// window as of now
func (w *Watcher) processDebounced(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	sort.Strings(settled)
	for _, path := range settled {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	}
}

func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		w.logger.Debug("Skipping vanished file", zap.String("path", path))
		return
	}

	result, err := w.proc.ProcessFile(ctx, path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stats.Errors++
		w.logger.Error("Failed to translate file", zap.String("path", path), zap.Error(err))
		return
	}
	w.stats.Processed++
	if result.Changed || result.Renamed {
		w.stats.Changed++
	}
}
