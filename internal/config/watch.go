package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it is written or replaced and sends every
// config that loads and validates. Failed reloads go to onErr and are
// skipped. The channel closes when ctx is done.
func Watch(ctx context.Context, path string, onErr func(error)) (<-chan Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	// Editors often save by renaming over the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if onErr == nil {
		onErr = func(error) {}
	}

	out := make(chan Config)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				c, err := Load(abs)
				if err != nil {
					onErr(err)
					continue
				}
				select {
				case out <- c:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				onErr(fmt.Errorf("watch config: %w", err))
			}
		}
	}()
	return out, nil
}
