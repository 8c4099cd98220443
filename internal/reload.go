package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/hogwarts/pkg/config"
)

// configWatcher applies log level changes from the config file at runtime.
// Everything else in the file is read once at startup.
type configWatcher struct {
	w      *fsnotify.Watcher
	path   string
	level  *slog.LevelVar
	logger *slog.Logger
}

// newConfigWatcher starts watching the directory holding path. Watching
// the directory rather than the file survives editors that replace the
// file on save.
func newConfigWatcher(path string, level *slog.LevelVar, logger *slog.Logger) (*configWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config watcher: resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher: watch %s: %w", filepath.Dir(abs), err)
	}
	return &configWatcher{w: w, path: abs, level: level, logger: logger}, nil
}

// Run processes file events until ctx is cancelled.
func (cw *configWatcher) Run(ctx context.Context) error {
	defer cw.w.Close()

	cw.logger.Info("config watcher: started", slog.String("path", cw.path))
	for {
		select {
		case <-ctx.Done():
			cw.logger.Info("config watcher: stopped")
			return nil

		case ev, ok := <-cw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != cw.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := reloadLogLevel(cw.path, cw.level); err != nil {
				cw.logger.Warn("config watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			cw.logger.Info("config watcher: log level applied", slog.String("log_level", cw.level.Level().String()))

		case err, ok := <-cw.w.Errors:
			if !ok {
				return nil
			}
			cw.logger.Error("config watcher: error", slog.String("error", err.Error()))
		}
	}
}

// reloadLogLevel reads the config at path and sets level from it.
// An invalid file leaves level untouched.
func reloadLogLevel(path string, level *slog.LevelVar) error {
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		return err
	}
	level.Set(cfg.App.LogLevel)
	return nil
}
