package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces the burst of events editors emit when saving
// (write + rename + chmod) into a single reload.
const debounceDelay = 200 * time.Millisecond

// Watcher watches the config file for changes, validates the new contents
// and notifies on successful reload. Invalid configs are reported and the
// previous config stays in effect.
type Watcher struct {
	watcher    *fsnotify.Watcher
	configPath string
	logger     *slog.Logger

	mu       sync.Mutex
	onReload func(*Config)
	onError  func(error)
	debounce *time.Timer
	running  bool

	done chan struct{}
}

// NewWatcher creates a Watcher for the config file at configPath.
func NewWatcher(configPath string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher:    fw,
		configPath: configPath,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// SetReloadCallback sets the callback invoked with each valid new config.
func (w *Watcher) SetReloadCallback(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = callback
}

// SetErrorCallback sets the callback invoked when a changed config fails
// to load or validate.
func (w *Watcher) SetErrorCallback(callback func(error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = callback
}

// Start begins watching. The containing directory is watched rather than
// the file itself so that atomic replace-on-save is seen.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return err
	}

	go w.watch()

	w.logger.Debug("config watcher started", "path", w.configPath)
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	if w.debounce != nil {
		w.debounce.Stop()
	}
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.configPath)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.scheduleReload()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	onReload := w.onReload
	onError := w.onError
	w.mu.Unlock()

	cfg, err := Load(w.configPath)
	if err != nil {
		w.logger.Warn("config file changed but reload failed", "path", w.configPath, "error", err)
		if onError != nil {
			onError(err)
		}
		return
	}

	w.logger.Info("config reloaded", "path", w.configPath)
	if onReload != nil {
		onReload(cfg)
	}
}
