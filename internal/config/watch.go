package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/prestsoftware/prest/internal/obslog"
	"github.com/prestsoftware/prest/subject"
)

// Watcher holds the most recently loaded Config and keeps it current by
// watching its file for writes, so a long-running rpc.StreamServer picks
// up a new precomputed-preorders path or RPC option set without a
// restart. Editors and config-management tools typically replace a file
// via rename rather than in-place write, so the underlying fsnotify watch
// is placed on the containing directory and filtered to the one path of
// interest.
type Watcher struct {
	path string
	log  *obslog.Logger

	fsw *fsnotify.Watcher

	mu      sync.RWMutex
	current Config

	done chan struct{}
}

// NewWatcher loads path once and starts watching it for changes.
func NewWatcher(path string, log *obslog.Logger) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		log:     log,
		fsw:     fsw,
		current: cfg,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Close stops the watch.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	target := filepath.Clean(w.path)
	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				if w.log != nil {
					w.log.Log(subject.LogError, "config reload failed: "+err.Error())
				}
				continue
			}
			w.mu.Lock()
			w.current = cfg
			w.mu.Unlock()
			if w.log != nil {
				w.log.Log(subject.LogInfo, "config reloaded from "+w.path)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Log(subject.LogError, "config watch error: "+err.Error())
			}
		}
	}
}
