package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher recarga el archivo de configuración cuando cambia en disco y
// notifica a los callbacks registrados. Solo se recarga el archivo; las
// variables de entorno se vuelven a aplicar encima.
type Watcher struct {
	path      string
	logger    *zap.Logger
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	mu        sync.Mutex
	callbacks []func(*Config)
	stopCh    chan struct{}
	doneCh    chan struct{}

	// reloadMu serializa reload con Stop
	reloadMu sync.Mutex
	stopped  bool
}

// NewWatcher observa el directorio del archivo, no el archivo en sí
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	return newWatcher(path, logger, 200*time.Millisecond)
}

func newWatcher(path string, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}

	w := &Watcher{
		path:     filepath.Clean(path),
		logger:   logger,
		watcher:  fsWatcher,
		debounce: debounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go w.loop()

	return w, nil
}

// OnChange registra un callback para cada recarga válida
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Stop detiene el watcher y espera a que termine el loop y cualquier
// recarga en curso. Después de Stop no se invoca ningún callback.
func (w *Watcher) Stop() {
	close(w.stopCh)
	<-w.doneCh

	w.reloadMu.Lock()
	w.stopped = true
	w.reloadMu.Unlock()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var timer *time.Timer

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", zap.Error(err))

		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func (w *Watcher) reload() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	if w.stopped {
		return
	}

	cfg, err := Load(w.path)
	if err != nil {
		w.logger.Error("config reload failed, keeping previous config", zap.Error(err))
		return
	}

	w.mu.Lock()
	callbacks := append([]func(*Config){}, w.callbacks...)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}

	w.logger.Info("config reloaded",
		zap.String("path", w.path),
		zap.Int("callbacks_notified", len(callbacks)))
}
