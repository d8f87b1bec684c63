package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// pollInterval is used when fsnotify is unavailable.
const pollInterval = 100 * time.Millisecond

// Watch reloads the config file at path whenever it changes and passes the
// result to onChange. A failed load is passed as an error; the previous
// config stays in effect for the caller to decide. Watching stops when ctx
// is cancelled. Uses fsnotify with polling fallback.
func Watch(ctx context.Context, path string, onChange func(Config, error)) {
	go func() {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			watchPolling(ctx, path, onChange)
			return
		}
		defer watcher.Close()

		// Watch the directory so editors that replace the file are seen
		if err := watcher.Add(filepath.Dir(path)); err != nil {
			watchPolling(ctx, path, onChange)
			return
		}

		watchEvents(ctx, path, watcher, onChange)
	}()
}

func watchEvents(ctx context.Context, path string, watcher *fsnotify.Watcher, onChange func(Config, error)) {
	baseName := filepath.Base(path)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			onChange(Load(path))

		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func watchPolling(ctx context.Context, path string, onChange func(Config, error)) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var lastMod time.Time
	if info, err := os.Stat(path); err == nil {
		lastMod = info.ModTime()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			info, err := os.Stat(path)
			if err != nil || !info.ModTime().After(lastMod) {
				continue
			}
			lastMod = info.ModTime()
			onChange(Load(path))
		}
	}
}
