package i18n

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kailas-cloud/xfind/internal/metrics"
)

// settleDelay lets editors finish writing before the file is re-read.
const settleDelay = 100 * time.Millisecond

// Watch reloads the catalog whenever its file changes, until ctx is done.
// The parent directory is watched so atomic replace-by-rename is seen.
func (c *Catalog) Watch(ctx context.Context) error {
	if c.path == "" {
		return fmt.Errorf("catalog has no file to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	target, err := filepath.Abs(c.path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", c.path, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	c.logger.Info("Watching translations", zap.String("path", target))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			time.Sleep(settleDelay)
			if _, err := os.Stat(target); err != nil {
				continue
			}
			c.reload(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Warn("Translation watcher error", zap.Error(err))
		}
	}
}

func (c *Catalog) reload(event fsnotify.Event) {
	if err := c.Reload(); err != nil {
		metrics.TranslationReloadsTotal.WithLabelValues("error").Inc()
		c.logger.Warn("Failed to reload translations",
			zap.String("event", event.Op.String()), zap.Error(err))
		return
	}
	metrics.TranslationReloadsTotal.WithLabelValues("ok").Inc()
	c.logger.Info("Translations reloaded", zap.String("event", event.Op.String()))
}
