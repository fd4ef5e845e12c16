package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// DebounceDelay is how long the watcher waits for more changes before it
// reloads. Editors often write files in multiple steps.
const DebounceDelay = 100 * time.Millisecond

// Watch calls reload whenever one of files changes, until ctx is done.
// reload returns the files to watch from then on, since includes may have
// changed. Directories are watched rather than files, so that atomic saves
// that replace a file are noticed.
func Watch(ctx context.Context, files []string, reload func() []string, logger logrus.FieldLogger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	update := func(files []string) {
		clear(watched)
		for _, file := range files {
			absPath, err := filepath.Abs(file)
			if err != nil {
				continue
			}
			watched[absPath] = true

			dir := filepath.Dir(absPath)
			if dirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				logger.WithError(err).WithField("dir", dir).Warn("failed to watch directory")
				continue
			}
			dirs[dir] = true
		}
	}
	update(files)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Remove and rename are part of atomic saves
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !watched[filepath.Clean(event.Name)] {
				continue
			}

			logger.WithField("file", event.Name).Debug("journal changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(DebounceDelay)
			pending = timer.C

		case <-pending:
			pending = nil
			update(reload())

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("file watcher error")
		}
	}
}
