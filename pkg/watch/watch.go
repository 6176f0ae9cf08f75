// Package watch calls back when files change under a set of directories.
// Bursts of events (a mod archive extracting, a bulk toggle) are folded
// into one callback after a quiet period.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/modshelf/pkg/errors"
	"github.com/arthur-debert/modshelf/pkg/logging"
)

// DefaultDebounce is the quiet period used when none is given
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches directory trees
type Watcher struct {
	dirs     []string
	debounce time.Duration
	logger   zerolog.Logger
}

// New creates a Watcher over dirs and everything below them
func New(dirs []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		dirs:     append([]string(nil), dirs...),
		debounce: debounce,
		logger:   logging.GetLogger("watch"),
	}
}

// Run blocks until ctx is done, calling onChange once per burst of events.
// Errors from onChange are logged and watching goes on.
func (w *Watcher) Run(ctx context.Context, onChange func() error) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrIOFailure, "failed to start file watcher")
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.dirs {
		if err := addTree(fw, dir); err != nil {
			return errors.Wrapf(err, errors.ErrIOFailure, "cannot watch %s", dir).WithDetail("path", dir)
		}
	}
	w.logger.Info().Strs("dirs", w.dirs).Dur("debounce", w.debounce).Msg("watching")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(fw, ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", ev.Name).Msg("cannot watch new directory")
					}
				}
			}
			w.logger.Trace().Str("event", ev.String()).Msg("change")
			pending = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if !pending {
				continue
			}
			pending = false
			if err := onChange(); err != nil {
				w.logger.Warn().Err(err).Msg("change handler failed")
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

// addTree watches dir and its subdirectories; fsnotify is not recursive
func addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}
