package planner

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dalvah/planease/internal/storage"
)

// WatchState watches the file-backend state directory and reloads the
// persisted blob when it changes on disk, so an external edit (or another
// process sharing the state directory) is picked up without a restart.
// Reload events are debounced because an atomic write emits several
// filesystem events. cb (if non-nil) is called after each reload. Runs until
// ctx is cancelled. Self-writes also trigger a reload; re-applying a
// just-saved snapshot is harmless.
func WatchState(ctx context.Context, fs *storage.FS, store *Store, logger *slog.Logger, cb func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(fs.Root()); err != nil {
		return err
	}

	logger.Info("state watcher: started", slog.String("root", fs.Root()))

	stateFile := storage.KeyFile(StateKey)

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("state watcher: stopped")
			return nil

		case <-reloadCh:
			LoadState(fs, store, logger)
			logger.Debug("state watcher: reloaded", slog.String("file", stateFile))
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != stateFile {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("state watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
