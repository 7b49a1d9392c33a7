package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 300 * time.Millisecond

// Watcher reloads the configuration whenever its file changes
type Watcher struct {
	logger   *zap.Logger
	path     string
	opts     Options
	onChange func(*AppConfig)

	fsw   *fsnotify.Watcher
	mu    sync.Mutex
	timer *time.Timer
	wg    sync.WaitGroup
	done  chan struct{}
}

// Watch starts watching path and calls onChange with each successfully reloaded
// configuration. The parent directory is watched so that editors that replace
// the file on save are still noticed. Invalid files are logged and skipped.
func Watch(logger *zap.Logger, path string, opts Options, onChange func(*AppConfig)) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching config path %s: %w", absPath, err)
	}

	w := &Watcher{
		logger:   logger,
		path:     absPath,
		opts:     opts,
		onChange: onChange,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	logger.Info("Watching configuration file", zap.String("path", absPath))
	return w, nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
				w.schedule()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", zap.Error(err))
		}
	}
}

// schedule debounces bursts of events from a single save
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}

	cfg, err := Reload(w.path, w.opts)
	if err != nil {
		w.logger.Warn("Ignoring invalid configuration change", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.logger.Info("Configuration reloaded", zap.String("path", w.path))
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	w.mu.Lock()
	select {
	case <-w.done:
		w.mu.Unlock()
		return nil
	default:
	}
	close(w.done)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
