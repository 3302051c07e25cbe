package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle time Watch uses when given zero.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange after the backing file changes, once per burst of
// events that settle for debounce. It blocks until ctx is done and then
// returns nil.
//
// The parent directory is watched rather than the file, since
// InsertBeforeMarker replaces the file by rename. Errors from onChange are
// logged and do not stop the watch.
func (s *Store) Watch(ctx context.Context, debounce time.Duration, onChange func(context.Context) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &Error{Op: "watch", Path: s.path, Err: err}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return &Error{Op: "watch", Path: s.path, Err: err}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return &Error{Op: "watch", Path: s.path, Err: err}
	}

	s.logger.Info("watching store", "resource", s.name, "path", s.path, "debounce", debounce)

	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	pending := false
	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			s.logger.Debug("store change detected", "resource", s.name, "op", ev.Op.String())
			pending = true
			lastEvent = time.Now()

		case werr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "resource", s.name, "error", werr)

		case <-ticker.C:
			if !pending || time.Since(lastEvent) < debounce {
				continue
			}
			pending = false
			if err := onChange(ctx); err != nil {
				s.logger.Warn("change handler failed", "resource", s.name, "error", err)
			}
		}
	}
}
