package config

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Watcher reloads the configuration file when it changes on disk and
// notifies registered callbacks. The emulator uses it to pick up log
// level changes without a restart.
type Watcher struct {
	configPath string
	viper      *viper.Viper
	logger     *logrus.Logger

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
	stopped   bool
}

// NewWatcher creates a watcher over the given config file.
func NewWatcher(cfg *Config, configPath string, logger *logrus.Logger) *Watcher {
	v := viper.New()
	v.SetConfigFile(configPath)

	return &Watcher{
		configPath: configPath,
		viper:      v,
		logger:     logger,
		config:     cfg,
	}
}

// OnChange registers a callback invoked with the freshly loaded config
// after every successful reload.
func (w *Watcher) OnChange(callback func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching. The initial read must succeed; later reload
// failures are logged and the previous config stays in effect.
func (w *Watcher) Start() error {
	if err := w.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	w.viper.WatchConfig()
	w.viper.OnConfigChange(func(e fsnotify.Event) {
		w.mu.RLock()
		stopped := w.stopped
		w.mu.RUnlock()
		if stopped {
			return
		}

		var newCfg Config
		if err := w.viper.Unmarshal(&newCfg); err != nil {
			w.logger.WithError(err).Warn("ignoring unreadable config change")
			return
		}

		w.mu.Lock()
		w.config = &newCfg
		callbacks := make([]func(*Config), len(w.callbacks))
		copy(callbacks, w.callbacks)
		w.mu.Unlock()

		w.logger.WithField("file", e.Name).Info("configuration reloaded")
		// Callbacks run outside the lock so they may query the watcher.
		for _, callback := range callbacks {
			callback(&newCfg)
		}
	})

	return nil
}

// Stop makes the watcher ignore further change events.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
}

// Current returns the most recently loaded config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}
