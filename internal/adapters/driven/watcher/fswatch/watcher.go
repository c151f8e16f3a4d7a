// Package fswatch provides a recursive FileWatcher built on fsnotify.
package fswatch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/interview-pilot/internal/core/ports/driven"
	"github.com/custodia-labs/interview-pilot/internal/logger"
)

// eventBuffer is the capacity of the event channel returned by Watch.
const eventBuffer = 100

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// Watcher reports file changes under a directory tree.
// fsnotify is not recursive, so every directory is added individually
// and newly created directories are added as they appear.
type Watcher struct {
	watcher *fsnotify.Watcher

	closeOnce sync.Once
}

// New creates a new file watcher.
func New() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{watcher: w}, nil
}

// Watch starts monitoring root and its subdirectories.
// Hidden directories are skipped. The returned channel closes when ctx ends
// or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context, root string) (<-chan driven.FileEvent, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", root)
	}
	if err := w.addTree(root); err != nil {
		return nil, err
	}

	events := make(chan driven.FileEvent, eventBuffer)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				fe, ok := w.translate(event)
				if !ok {
					continue
				}
				select {
				case events <- fe:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher: %v", err)
			}
		}
	}()

	return events, nil
}

// translate maps an fsnotify event to a FileEvent.
// Directory creations extend the watch instead of being reported.
func (w *Watcher) translate(event fsnotify.Event) (driven.FileEvent, bool) {
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Warn("file watcher: %v", err)
			}
			return driven.FileEvent{}, false
		}
		return driven.FileEvent{Path: event.Name, Type: driven.FileCreated}, true
	case event.Has(fsnotify.Write):
		return driven.FileEvent{Path: event.Name, Type: driven.FileModified}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return driven.FileEvent{Path: event.Name, Type: driven.FileRemoved}, true
	default:
		return driven.FileEvent{}, false
	}
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Unreadable entries are skipped
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		logger.Debug("watching %s", path)
		return nil
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.watcher.Close()
	})
	return err
}
