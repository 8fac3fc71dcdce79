package events

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// CatalogWatcher reloads the catalog when its CSV file changes or
// reappears. It watches the parent directory since fsnotify cannot watch
// files that do not exist yet.
type CatalogWatcher struct {
	catalog  *Catalog
	parent   string
	watcher  *fsnotify.Watcher
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	debounce time.Duration
}

// NewCatalogWatcher creates a watcher for the catalog's file.
func NewCatalogWatcher(catalog *Catalog) (*CatalogWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CatalogWatcher{
		catalog:  catalog,
		parent:   filepath.Dir(catalog.Path()),
		watcher:  fsw,
		ctx:      ctx,
		cancel:   cancel,
		debounce: 250 * time.Millisecond,
	}, nil
}

// Start begins watching for catalog changes.
func (w *CatalogWatcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.parent); err != nil {
		log.Warn().Err(err).Str("path", w.parent).Msg("Failed to watch catalog directory")
	}

	go w.watchLoop()
	return nil
}

// Stop stops the watcher.
func (w *CatalogWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}
	w.running = false
	w.cancel()
	return w.watcher.Close()
}

func (w *CatalogWatcher) watchLoop() {
	var reloadTimer *time.Timer
	target := filepath.Clean(w.catalog.Path())

	for {
		select {
		case <-w.ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}

			// Writers rewrite the CSV in bursts; reload once they settle.
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			reloadTimer = time.AfterFunc(w.debounce, func() {
				if err := w.catalog.Load(); err != nil {
					log.Error().Err(err).Msg("Catalog reload failed")
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("Catalog watcher error")
		}
	}
}
