package catalog

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the catalog whenever a file in the user plugin directory
// changes. Returns a stop function. A missing directory disables
// watching without error — the directory may simply not exist yet.
func (c *Catalog) Watch(logger *slog.Logger) (stop func(), err error) {
	if c.userDir == "" {
		return func() {}, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(c.userDir); err != nil {
		watcher.Close()
		// Directory absent — nothing to watch.
		return func() {}, nil
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if err := c.Reload(); err != nil {
					logger.Error("catalog reload failed", "path", event.Name, "err", err)
					continue
				}
				logger.Info("catalog reloaded", "path", event.Name)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Error("catalog watcher error", "err", err)
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
