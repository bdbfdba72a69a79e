// Package watch regenerates the visualization artifact when the
// configuration or scene preset changes on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ternarybob/resonance/internal/logger"
)

// DefaultDebounce coalesces editor write bursts into one regeneration.
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the given files and triggers regeneration.
type Watcher struct {
	watcher    *fsnotify.Watcher
	files      map[string]bool
	debounce   time.Duration
	regenerate func() error

	running bool
	stopCh  chan struct{}
	mu      sync.RWMutex

	// Debouncing state
	pending   map[string]time.Time
	pendingMu sync.Mutex
}

// NewWatcher creates a watcher over the given files. Directories are
// watched rather than the files themselves: most editors replace files
// on save, which would otherwise drop the watch.
func NewWatcher(files []string, regenerate func() error) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	watched := make(map[string]bool, len(files))
	for _, f := range files {
		if f != "" {
			watched[filepath.Clean(f)] = true
		}
	}

	return &Watcher{
		watcher:    fsWatcher,
		files:      watched,
		debounce:   DefaultDebounce,
		regenerate: regenerate,
		stopCh:     make(chan struct{}),
		pending:    make(map[string]time.Time),
	}, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]bool)
	for f := range w.files {
		dirs[filepath.Dir(f)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	go w.processEvents()
	go w.processDebounced()

	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.running = false
	close(w.stopCh)

	return w.watcher.Close()
}

// IsRunning returns whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// processEvents queues relevant fsnotify events for debouncing.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.files[filepath.Clean(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.pendingMu.Lock()
			w.pending[event.Name] = time.Now()
			w.pendingMu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.GetLogger().Warn().Err(err).Msg("Watcher error")
		}
	}
}

// processDebounced fires regeneration once a change burst settles.
func (w *Watcher) processDebounced() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.pendingMu.Lock()
			fire := false
			now := time.Now()
			for name, at := range w.pending {
				if now.Sub(at) >= w.debounce {
					delete(w.pending, name)
					fire = true
				}
			}
			w.pendingMu.Unlock()

			if fire {
				if err := w.regenerate(); err != nil {
					logger.GetLogger().Error().Err(err).Msg("Regeneration failed")
				}
			}
		}
	}
}
