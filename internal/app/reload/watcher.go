package reload

import (
	"context"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"assassin/internal/app/bundle"
	"assassin/internal/pkg/logx"
)

// Watcher reports which bundle files were created, written, renamed or removed.
// Events arriving within the debounce window are delivered as one batch.
type Watcher struct {
	dir      string
	debounce time.Duration
	onChange func(changed []string)
	logger   zerolog.Logger

	// ready is closed once the directory tree is being watched.
	ready chan struct{}
}

// NewWatcher returns a Watcher that calls onChange from its own goroutine.
func NewWatcher(dir string, debounce time.Duration, onChange func(changed []string)) *Watcher {
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		onChange: onChange,
		logger:   logx.Component("watcher"),
		ready:    make(chan struct{}),
	}
}

// Run watches the bundle until ctx is cancelled.
//
// fsnotify can only watch paths that exist, so a missing bundle directory is
// re-checked every debounce period until the first build creates it. Everything
// found at that point is reported as changed.
func (w *Watcher) Run(ctx context.Context) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to start file watcher.")
		return
	}
	defer fw.Close()

	created, ok := w.waitForDir(ctx)
	if !ok {
		return
	}

	files, err := w.addTree(fw, w.dir)
	if err != nil {
		w.logger.Error().Err(err).Str("dir", w.dir).Msg("Failed to watch bundle directory.")
		return
	}
	close(w.ready)

	w.logger.Info().Str("dir", w.dir).Int("files", len(files)).Dur("debounce", w.debounce).Msg("Watching bundle directory.")

	pending := make(map[string]struct{})
	var flush <-chan time.Time

	if created && len(files) > 0 {
		for _, rel := range files {
			pending[rel] = struct{}{}
		}
		flush = time.After(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if w.record(fw, event, pending) {
				flush = time.After(w.debounce)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("File watcher error.")

		case <-flush:
			flush = nil
			if len(pending) == 0 {
				continue
			}

			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)

			w.logger.Debug().Strs("changed", changed).Msg("Bundle changed.")
			w.onChange(changed)
		}
	}
}

// waitForDir blocks until the bundle directory exists. created reports whether it
// had to wait; ok is false when ctx ended first.
func (w *Watcher) waitForDir(ctx context.Context) (created, ok bool) {
	if isDir(w.dir) {
		return false, true
	}

	w.logger.Info().Str("dir", w.dir).Msg("Bundle directory missing, waiting for the first build.")

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false, false
		case <-ticker.C:
			if isDir(w.dir) {
				return true, true
			}
		}
	}
}

// record adds the file touched by event to pending and starts watching new
// directories. It reports whether anything was added.
func (w *Watcher) record(fw *fsnotify.Watcher, event fsnotify.Event, pending map[string]struct{}) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	rel, ok := w.relative(event.Name)
	if !ok {
		return false
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		// Files written before the watch was added produce no events of their own.
		files, err := w.addTree(fw, event.Name)
		if err != nil {
			w.logger.Warn().Err(err).Str("dir", rel).Msg("Failed to watch new directory.")
			return false
		}
		for _, f := range files {
			pending[f] = struct{}{}
		}
		return len(files) > 0
	}

	pending[rel] = struct{}{}
	return true
}

// addTree watches root and every non-hidden directory below it. It returns the
// regular files found, relative to the bundle directory.
func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}

		rel, ok := w.relative(p)
		if !ok && p != w.dir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return fw.Add(p)
		}
		if d.Type().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})

	return files, err
}

// relative converts name to a slash path inside the bundle. Hidden entries and the
// bundle directory itself are rejected, matching bundle.Files.
func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.dir, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}

	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if bundle.IsHidden(part) {
			return "", false
		}
	}
	return rel, true
}

func isDir(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.IsDir()
}
