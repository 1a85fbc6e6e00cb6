package internal

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/corkboard/pkg/config"
)

const reloadDebounce = 200 * time.Millisecond

// WatchConfig watches the config file and applies app.log_level changes to
// level until ctx is cancelled. Other settings need a restart. The parent
// directory is watched so that editors which replace the file on save are
// still seen.
func WatchConfig(ctx context.Context, path string, level *slog.LevelVar, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}
	name := filepath.Clean(path)

	logger.Info("config watcher: started", slog.String("path", path))

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-timerCh:
			reloadLogLevel(path, level, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerCh = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher: error", slog.String("error", err.Error()))
		}
	}
}

// reloadLogLevel re-reads path and applies its log level. An unreadable or
// invalid file leaves the current level in place.
func reloadLogLevel(path string, level *slog.LevelVar, logger *slog.Logger) bool {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		logger.Warn("config watcher: reload failed", slog.String("error", err.Error()))
		return false
	}
	if cfg.App.LogLevel == level.Level() {
		return false
	}
	logger.Info("config watcher: log level changed",
		slog.String("from", level.Level().String()),
		slog.String("to", cfg.App.LogLevel.String()))
	level.Set(cfg.App.LogLevel)
	return true
}
