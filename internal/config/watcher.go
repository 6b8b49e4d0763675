package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/v0xg/pickr/internal/logger"
)

// reloadDelay coalesces the burst of events editors emit on save.
const reloadDelay = 50 * time.Millisecond

// Watch reloads the file at path whenever it changes and passes the result
// to onChange. Flags are not reapplied; only file and environment values
// change at runtime. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors often replace the file instead of writing it.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				pending = time.After(reloadDelay)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("config: watcher error: %v", err)
		case <-pending:
			pending = nil
			cfg, err := Load(path, nil)
			if err != nil {
				logger.Warnf("config: reload failed: %v", err)
				continue
			}
			logger.Infof("config: reloaded %s", path)
			onChange(cfg)
		}
	}
}
