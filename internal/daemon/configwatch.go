package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/1broseidon/voltray/internal/config"
)

// ConfigWatcherConfig holds configuration for the config watcher.
type ConfigWatcherConfig struct {
	Path     string
	Debounce time.Duration
	// Load reads the effective config. Defaults to config.LoadFromPath(Path).
	Load   func() (*config.Config, error)
	Logger *slog.Logger
}

// ConfigWatcher reloads the config file when it changes on disk. Invalid
// configs are logged and ignored; the previous config stays in effect.
type ConfigWatcher struct {
	path     string
	debounce time.Duration
	load     func() (*config.Config, error)
	apply    func(*config.Config)
	logger   *slog.Logger
}

// NewConfigWatcher creates a watcher that passes every valid reload to apply.
func NewConfigWatcher(cfg ConfigWatcherConfig, apply func(*config.Config)) *ConfigWatcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	load := cfg.Load
	if load == nil {
		path := cfg.Path
		load = func() (*config.Config, error) {
			res, err := config.LoadFromPath(path)
			if err != nil {
				return nil, err
			}
			return res.Config, nil
		}
	}

	return &ConfigWatcher{
		path:     cfg.Path,
		debounce: debounce,
		load:     load,
		apply:    apply,
		logger:   logger,
	}
}

// Run watches the config file's directory until ctx is cancelled. The
// directory is created if missing so a config written later is picked up.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// Watch the directory; editors replace files rather than writing in place.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.logger.Info("config watcher started", "path", w.path, "debounce", w.debounce)

	filename := filepath.Base(w.path)
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			w.logger.Debug("config file changed", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			w.ReloadNow()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)
		}
	}
}

// ReloadNow loads and applies the config immediately.
func (w *ConfigWatcher) ReloadNow() (err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("config reload panic recovered", "error", r)
			err = fmt.Errorf("config reload panic: %v", r)
		}
	}()

	cfg, err := w.load()
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous config", "error", err)
		return err
	}
	w.apply(cfg)
	w.logger.Info("config reloaded", "path", w.path)
	return nil
}
