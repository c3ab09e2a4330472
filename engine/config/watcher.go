package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a configuration file whenever it changes on disk.
// Reloads are delivered on Updates; only the newest pending reload is kept.
type Watcher struct {
	path     string
	fsnotify *fsnotify.Watcher

	updates chan Config
	errors  chan error
	done    chan struct{}

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher starts watching the directory holding path. The directory is watched rather than the
// file so that editors that replace the file on save are still seen.
//
// Parameters:
//   - path: the configuration file to watch
//
// Returns:
//   - *Watcher: the running watcher
//   - error: an error if the watcher cannot be created
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("watch %q: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		fsnotify: fsWatch,
		updates:  make(chan Config, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Updates delivers each successfully reloaded configuration.
func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

// Errors delivers reload failures. The previous configuration stays in effect.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher. Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsnotify.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || !(e.Has(fsnotify.Write) || e.Has(fsnotify.Create)) {
				continue
			}
			c, err := Load(w.path)
			if err != nil {
				replace(w.errors, err)
				continue
			}
			replace(w.updates, c)
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			replace(w.errors, err)
		}
	}
}

// replace sends v on a one-slot channel, dropping a stale undelivered value first.
func replace[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
