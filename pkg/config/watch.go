package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the global configuration whenever the config file is
// written, created or renamed into place, and calls onChange with the new
// value. It blocks until ctx is cancelled.
//
// The containing directory is watched rather than the file itself so that
// editors and config-management tools that replace the file atomically are
// picked up.
func Watch(ctx context.Context, onChange func(*Config)) error {
	path := Get().ConfigFilePath()
	if path == "" {
		path = filepath.Join(DefaultConfigPath, ConfigFileName)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	slog.Info("watching configuration file", "path", path)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := Reload(); err != nil {
				slog.Error("configuration reload failed", "path", path, "error", err)
				continue
			}
			slog.Info("configuration reloaded", "path", path)
			if onChange != nil {
				onChange(Get())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("configuration watcher error", "error", err)
		case <-ctx.Done():
			return nil
		}
	}
}
