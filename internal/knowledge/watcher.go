package knowledge

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultWatchDebounce = 500 * time.Millisecond

// Watch reloads store whenever its file is written or replaced on disk. The
// parent directory is watched so that rename-based saves are seen. It blocks
// until ctx is done.
func Watch(ctx context.Context, store *Store, debounce time.Duration, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create knowledge watcher failed: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(store.Path())
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch knowledge dir failed: %w", err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
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
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := store.Load(); err != nil {
				log.Warn("reload knowledge store failed", zap.String("path", target), zap.Error(err))
				continue
			}
			log.Info("knowledge store reloaded", zap.String("path", target), zap.Int("documents", store.Len()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("knowledge watcher error", zap.Error(err))
		}
	}
}
