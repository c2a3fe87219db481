// SPDX-License-Identifier: MIT

package scenario

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the reloaded scenario each time path is written.
// It runs until ctx is cancelled. A reload that fails to parse is logged and
// skipped; the caller keeps the previous scenario.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(*Scenario)) error {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}
	logger.Info("scenario: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// editors often save through rename, which shows up as Create
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			s, err := Load(path)
			if err != nil {
				logger.Error("scenario: reload failed, keeping previous", "path", path, "err", err)
				continue
			}
			logger.Info("scenario: reloaded", "path", path)
			onChange(s)

			// an atomic save may have replaced the inode
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("scenario: watcher error", "err", err)
		}
	}
}
