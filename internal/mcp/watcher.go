package mcp

import (
	"context"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/repindex/repindex/internal/graph"
)

// Reloadable is an interface for components that can be reloaded.
type Reloadable interface {
	Reload(ctx context.Context) error
}

// GraphWatcher watches the artifact directory and reloads the searcher when
// a serialized graph file changes. Reload failures keep the old graph.
type GraphWatcher struct {
	reloadable   Reloadable
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewGraphWatcher creates a watcher over the graph artifact directory.
func NewGraphWatcher(reloadable Reloadable, graphDir string) (*GraphWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(graphDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &GraphWatcher{
		reloadable:   reloadable,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}, nil
}

// Start begins watching for graph changes.
func (gw *GraphWatcher) Start(ctx context.Context) {
	go gw.watch(ctx)
}

// Stop stops the watcher.
func (gw *GraphWatcher) Stop() {
	gw.stopOnce.Do(func() {
		close(gw.stopCh)
		<-gw.doneCh // Wait for goroutine to finish
		gw.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (gw *GraphWatcher) watch(ctx context.Context) {
	defer close(gw.doneCh)

	var debounceTimer *time.Timer
	reloadCh := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case <-gw.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-gw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isGraphArtifact(event.Name) {
				continue
			}

			// Reset debounce timer - properly stop and drain
			if debounceTimer != nil {
				if !debounceTimer.Stop() {
					select {
					case <-debounceTimer.C:
					default:
					}
				}
			}
			debounceTimer = time.AfterFunc(gw.debounceTime, func() {
				select {
				case reloadCh <- struct{}{}:
				default:
				}
			})

		case <-reloadCh:
			gw.triggerReload(ctx)

		case err, ok := <-gw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Graph watcher error: %v", err)
		}
	}
}

// triggerReload reloads the graph, keeping the old state on failure.
func (gw *GraphWatcher) triggerReload(ctx context.Context) {
	log.Printf("Graph changed, reloading...")
	start := time.Now()

	if err := gw.reloadable.Reload(ctx); err != nil {
		log.Printf("Error reloading graph: %v (keeping old state)", err)
		return
	}

	log.Printf("Graph reloaded in %v", time.Since(start))
}

// isGraphArtifact reports whether a path names one of the serialized graph
// projections.
func isGraphArtifact(name string) bool {
	base := filepath.Base(name)
	for _, mode := range graph.Modes {
		if base == mode.Filename() {
			return true
		}
	}
	return false
}
