// Package filesystem enumerates and watches document files under a
// root directory.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/retriva-labs/retriva/internal/logger"
)

// ChangeType classifies a watched file event.
type ChangeType string

// Change types emitted by Watch.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is one file event under the watched root.
type Change struct {
	// Type classifies the event.
	Type ChangeType

	// Path is the absolute file path.
	Path string
}

// Filter decides which paths are document files. Satisfied by
// loaders.Registry.
type Filter interface {
	Supported(path string) bool
}

// Source lists and watches document files under a root directory.
// Hidden files and directories are skipped.
type Source struct {
	root    string
	filter  Filter
	watcher *fsnotify.Watcher
}

// New creates a source rooted at dir. The filter selects which files
// count as documents; nil accepts everything.
func New(dir string, filter Filter) *Source {
	return &Source{
		root:   dir,
		filter: filter,
	}
}

// Root returns the watched root directory.
func (s *Source) Root() string {
	return s.root
}

// List walks the root and returns all supported document files in
// walk order.
func (s *Source) List(ctx context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if hidden(d.Name()) && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !s.accepts(path) {
			return nil
		}

		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}

	return paths, nil
}

// Watch emits file changes under the root until the context is
// cancelled. New subdirectories are picked up as they appear. The
// returned channel is closed on cancellation.
func (s *Source) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	s.watcher = watcher

	// fsnotify does not recurse: register every existing directory.
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if hidden(d.Name()) && path != s.root {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("registering watch directories: %w", err)
	}

	changes := make(chan Change)
	go s.run(ctx, changes)

	logger.Debug("Watching %s for document changes", s.root)
	return changes, nil
}

// Close stops the watcher if one is running.
func (s *Source) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

// run translates fsnotify events until cancellation.
func (s *Source) run(ctx context.Context, changes chan<- Change) {
	defer close(changes)
	defer s.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			change, ok := s.translate(event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// translate maps one fsnotify event onto a Change. Directory creation
// extends the watch instead of producing a change.
func (s *Source) translate(event fsnotify.Event) (Change, bool) {
	if hidden(filepath.Base(event.Name)) {
		return Change{}, false
	}

	switch {
	case event.Op.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := s.watcher.Add(event.Name); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", event.Name, err)
			}
			return Change{}, false
		}
		if !s.accepts(event.Name) {
			return Change{}, false
		}
		return Change{Type: ChangeCreated, Path: event.Name}, true

	case event.Op.Has(fsnotify.Write):
		if !s.accepts(event.Name) {
			return Change{}, false
		}
		return Change{Type: ChangeUpdated, Path: event.Name}, true

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !s.accepts(event.Name) {
			return Change{}, false
		}
		return Change{Type: ChangeDeleted, Path: event.Name}, true
	}

	// Chmod-only events carry no content change.
	return Change{}, false
}

func (s *Source) accepts(path string) bool {
	return s.filter == nil || s.filter.Supported(path)
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
