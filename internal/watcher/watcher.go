// Package watcher re-applies inline-math normalization to a Markdown
// file whenever it changes on disk, so spacing stays render-safe while
// the document is being edited.
package watcher

import (
	"context"
	"crypto/sha256"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Gongzihang6/md-math-fixer/internal/editor"
	"github.com/Gongzihang6/md-math-fixer/internal/logger"
	"github.com/Gongzihang6/md-math-fixer/internal/types"
)

// debounceDelay coalesces the event bursts editors emit on save.
const debounceDelay = 200 * time.Millisecond

// Watcher monitors one file and runs the normalize mode on every
// change. A content hash of the last result guards against the
// watcher's own write-back retriggering work.
type Watcher struct {
	path      string
	processor *editor.FileProcessor
	lastHash  [sha256.Size]byte
}

// New creates a Watcher for path using the given processor.
func New(path string, processor *editor.FileProcessor) *Watcher {
	return &Watcher{
		path:      path,
		processor: processor,
	}
}

// Run watches the file until ctx is cancelled. The containing
// directory is watched rather than the file itself: editors that save
// via rename-and-replace would otherwise silently drop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return types.NewAppError(types.ErrWatch, "failed to create file watcher", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return types.NewAppErrorWithDetails(types.ErrWatch, "failed to watch directory", dir, err)
	}

	logger.Info("watching file",
		logger.String("path", w.path),
		logger.String("dir", dir))

	// Initial pass so a stale file is fixed without waiting for an edit.
	w.process()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped", logger.String("path", w.path))
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				// A tick that fired but was not yet read must be
				// drained, or Reset would deliver it early.
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.process()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logger.Err(err))
		}
	}
}

// process runs one normalize pass, skipping work when the content hash
// matches the previous result.
func (w *Watcher) process() {
	result, err := w.processor.ProcessFile(w.path, types.ModeNormalize)
	if err != nil {
		logger.Warn("normalize pass failed", logger.Err(err), logger.String("path", w.path))
		return
	}

	hash := sha256.Sum256([]byte(result.Output))
	if hash == w.lastHash {
		logger.Debug("content unchanged since last pass", logger.String("path", w.path))
		return
	}
	w.lastHash = hash

	if result.Written {
		logger.Info("normalized on change", logger.String("path", w.path))
	}
}
