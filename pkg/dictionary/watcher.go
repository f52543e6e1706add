package dictionary

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 100 * time.Millisecond

// Watch reloads path whenever it changes and hands each good catalog to
// onChange. A file that fails to load is logged and the previous catalog
// stays in use. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, onChange func(*suggest.Catalog)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	log.Debugf("Watching candidate list %s", target)

	timer := time.NewTimer(reloadDelay)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("Candidate list watcher error: %v", err)
		case <-timer.C:
			catalog, err := Load(target)
			if err != nil {
				log.Warnf("Reload of %s failed, keeping previous candidates: %v", target, err)
				continue
			}
			log.Infof("Reloaded %d candidates from %s", catalog.Len(), target)
			onChange(catalog)
		}
	}
}
